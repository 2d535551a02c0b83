package inject

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const (
	snippet = `<script src="./x.js"></script>`
	marker  = "</body>"
)

func writeDoc(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestInjectBeforeMarker(t *testing.T) {
	path := writeDoc(t, []byte("<html><body><p>hi</p></body></html>"))

	result, err := InjectBefore(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.True(t, result.Modified)
	assert.False(t, result.AlreadyInjected)
	assert.Equal(t, "utf-8", result.Encoding)

	want := "<html><body><p>hi</p>" + snippet + "\n</body></html>"
	assert.Equal(t, want, readDoc(t, path))
}

func TestInjectIsIdempotent(t *testing.T) {
	path := writeDoc(t, []byte("<html><body><p>hi</p></body></html>"))

	_, err := InjectBefore(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	once := readDoc(t, path)

	result, err := InjectBefore(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.True(t, result.AlreadyInjected)
	assert.False(t, result.Modified)
	assert.Equal(t, once, readDoc(t, path))
}

func TestInjectUsesLastMarkerOccurrence(t *testing.T) {
	path := writeDoc(t, []byte("<body>inner</body><body>outer</body></html>"))

	_, err := InjectBefore(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)

	got := readDoc(t, path)
	assert.Equal(t, "<body>inner</body><body>outer"+snippet+"\n</body></html>", got)
	assert.Equal(t, 1, strings.Count(got, snippet))
}

func TestInjectMarkerCaseInsensitive(t *testing.T) {
	path := writeDoc(t, []byte("<html><body>hi</BODY></html>"))

	result, err := InjectBefore(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.True(t, result.Modified)
	assert.Equal(t, "<html><body>hi"+snippet+"\n</BODY></html>", readDoc(t, path))
}

func TestInjectMarkerNotFound(t *testing.T) {
	path := writeDoc(t, []byte("<html><p>no end tag</p>"))

	_, err := InjectBefore(RealSystem{}, path, snippet, marker)
	assert.ErrorIs(t, err, ErrMarkerNotFound)
	assert.Equal(t, "<html><p>no end tag</p>", readDoc(t, path))
}

func TestInjectMissingFile(t *testing.T) {
	_, err := InjectBefore(RealSystem{}, filepath.Join(t.TempDir(), "absent.html"), snippet, marker)
	assert.Error(t, err)
}

func TestInjectWindows1252RoundTrip(t *testing.T) {
	// "café" in cp1252 is not valid UTF-8, so the decoder chain must fall
	// through to windows-1252 and write the file back in the same encoding.
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte("<html><body>café</body></html>"))
	require.NoError(t, err)
	path := writeDoc(t, encoded)

	result, err := InjectBefore(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.True(t, result.Modified)
	assert.Equal(t, "windows-1252", result.Encoding)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>café"+snippet+"\n</body></html>", string(decoded))
}

func TestInjectedReportsPresence(t *testing.T) {
	path := writeDoc(t, []byte("<html><body>hi</body></html>"))

	injected, err := Injected(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.False(t, injected)

	_, err = InjectBefore(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)

	injected, err = Injected(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.True(t, injected)
}

func TestInjectedMissingMarkerIsNotFatal(t *testing.T) {
	path := writeDoc(t, []byte("plain text"))

	injected, err := Injected(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.False(t, injected)
}

func TestPreviewShowsDiffWithoutWriting(t *testing.T) {
	original := "<html><body>hi</body></html>"
	path := writeDoc(t, []byte(original))

	diff, err := Preview(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.Contains(t, diff, snippet)
	assert.Equal(t, original, readDoc(t, path))
}

func TestPreviewEmptyWhenAlreadyInjected(t *testing.T) {
	path := writeDoc(t, []byte("<html><body>hi</body></html>"))
	_, err := InjectBefore(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)

	diff, err := Preview(RealSystem{}, path, snippet, marker)
	require.NoError(t, err)
	assert.Empty(t, diff)
}
