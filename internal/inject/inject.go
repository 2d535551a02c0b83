// Package inject performs idempotent insertion of a script reference into an
// HTML document.
package inject

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"
	"golang.org/x/text/encoding/charmap"

	"github.com/fynrae/zalopatch/internal/messages"
)

// ErrMarkerNotFound indicates the injection marker is absent from the document.
var ErrMarkerNotFound = errors.New("marker not found")

// ErrUndecodable indicates no known encoding could decode the document.
var ErrUndecodable = errors.New("undecodable document")

// idempotenceSlack widens the lookbehind window beyond the snippet length so
// whitespace drift between the snippet and the marker does not defeat the
// already-injected check.
const idempotenceSlack = 10

// System abstracts the document reads and writes. Package-local by design;
// see the catalog package for rationale.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using the OS.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to the named file.
func (RealSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Result reports what InjectBefore did.
type Result struct {
	// Modified is true when the document was rewritten.
	Modified bool
	// AlreadyInjected is true when the snippet was found in place and the
	// document was left untouched.
	AlreadyInjected bool
	// Encoding names the encoding the document was read and written with.
	Encoding string
}

// docEncoding is one entry in the ordered decode attempt list. A nil charmap
// means UTF-8.
type docEncoding struct {
	name string
	cm   *charmap.Charmap
}

// encodings is tried in order; the first successful decode wins and is also
// used to re-encode on write.
var encodings = []docEncoding{
	{name: "utf-8"},
	{name: "windows-1252", cm: charmap.Windows1252},
	{name: "latin-1", cm: charmap.ISO8859_1},
}

// InjectBefore inserts snippet followed by a newline immediately before the
// last case-insensitive occurrence of marker in the document at path. When the
// snippet already sits immediately before that occurrence the document is left
// byte-identical and the call succeeds with AlreadyInjected set.
func InjectBefore(sys System, path string, snippet string, marker string) (Result, error) {
	content, enc, perm, err := readDocument(sys, path)
	if err != nil {
		return Result{}, err
	}

	pos, found := lastMarkerIndex(content, marker)
	if !found {
		return Result{}, fmt.Errorf("%w: %s", ErrMarkerNotFound, fmt.Sprintf(messages.InjectMarkerNotFoundFmt, marker, path))
	}

	if injectedAt(content, snippet, pos) {
		return Result{AlreadyInjected: true, Encoding: enc.name}, nil
	}

	updated := content[:pos] + snippet + "\n" + content[pos:]
	data, err := enc.encode(updated)
	if err != nil {
		return Result{}, fmt.Errorf(messages.InjectEncodeSnippetFmt, path, enc.name, err)
	}
	if err := sys.WriteFile(path, data, perm); err != nil {
		return Result{}, fmt.Errorf(messages.InjectWriteFmt, path, err)
	}
	return Result{Modified: true, Encoding: enc.name}, nil
}

// Injected reports whether snippet already sits before the last occurrence of
// marker in the document at path. Marker absence is reported as not injected,
// not as an error, so status checks stay non-fatal.
func Injected(sys System, path string, snippet string, marker string) (bool, error) {
	content, _, _, err := readDocument(sys, path)
	if err != nil {
		return false, err
	}
	pos, found := lastMarkerIndex(content, marker)
	if !found {
		return false, nil
	}
	return injectedAt(content, snippet, pos), nil
}

// Preview returns a unified diff of the injection without writing anything.
// An empty diff means the snippet is already in place.
func Preview(sys System, path string, snippet string, marker string) (string, error) {
	content, _, _, err := readDocument(sys, path)
	if err != nil {
		return "", err
	}
	pos, found := lastMarkerIndex(content, marker)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrMarkerNotFound, fmt.Sprintf(messages.InjectMarkerNotFoundFmt, marker, path))
	}
	if injectedAt(content, snippet, pos) {
		return "", nil
	}
	updated := content[:pos] + snippet + "\n" + content[pos:]
	return udiff.Unified(path, path+" (patched)", content, updated), nil
}

// readDocument decodes the file with the first encoding that accepts it and
// returns the decoded text, the winning encoding, and the file's mode for the
// eventual rewrite.
func readDocument(sys System, path string) (string, docEncoding, os.FileMode, error) {
	info, err := sys.Stat(path)
	if err != nil {
		return "", docEncoding{}, 0, fmt.Errorf(messages.InjectReadFmt, path, err)
	}
	data, err := sys.ReadFile(path)
	if err != nil {
		return "", docEncoding{}, 0, fmt.Errorf(messages.InjectReadFmt, path, err)
	}
	for _, enc := range encodings {
		text, ok := enc.decode(data)
		if ok {
			return text, enc, info.Mode().Perm(), nil
		}
	}
	return "", docEncoding{}, 0, fmt.Errorf("%w: %s", ErrUndecodable, fmt.Sprintf(messages.InjectUndecodableFmt, path))
}

// decode attempts to interpret data in this encoding.
func (e docEncoding) decode(data []byte) (string, bool) {
	if e.cm == nil {
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	}
	decoded, err := e.cm.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	// Undefined code points decode to U+FFFD; treat that as a failed decode
	// so the next encoding in the list gets a chance.
	if strings.ContainsRune(string(decoded), utf8.RuneError) {
		return "", false
	}
	return string(decoded), true
}

// encode converts text back to this encoding's byte form.
func (e docEncoding) encode(text string) ([]byte, error) {
	if e.cm == nil {
		return []byte(text), nil
	}
	return e.cm.NewEncoder().Bytes([]byte(text))
}

// lastMarkerIndex finds the byte offset of the last case-insensitive
// occurrence of marker. Folding is ASCII-only so byte offsets into the
// original content stay valid; markers are HTML tag literals.
func lastMarkerIndex(content string, marker string) (int, bool) {
	pos := strings.LastIndex(foldASCII(content), foldASCII(marker))
	if pos < 0 {
		return 0, false
	}
	return pos, true
}

func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// injectedAt reports whether snippet already appears in the window
// immediately preceding the insertion point.
func injectedAt(content string, snippet string, pos int) bool {
	start := pos - len(snippet) - idempotenceSlack
	if start < 0 {
		start = 0
	}
	return strings.Contains(content[start:pos], snippet)
}
