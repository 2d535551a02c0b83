// Package testutil provides shell-stub helpers for exercising the external
// archive tool boundary in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) {
	t.Helper()
	WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) {
	t.Helper()
	path := filepath.Join(dir, name)
	content := []byte(fmt.Sprintf("#!/bin/sh\nexit %d\n", exitCode))
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

// WriteFakeAsar writes a stub that emulates the asar tool: `extract <archive>
// <dest>` copies the archive's content into dest as pc-dist/index.html, and
// `pack <dir> <archive>` concatenates the tree's files into the archive.
func WriteFakeAsar(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "asar")
	script := `#!/bin/sh
# Tests override PATH to point at the stub directory; restore the standard
# locations so the utilities below resolve.
PATH="$PATH:/usr/bin:/bin"
case "$1" in
extract)
  mkdir -p "$3/pc-dist" || exit 1
  cp "$2" "$3/pc-dist/index.html" || exit 1
  ;;
pack)
  cat "$2"/pc-dist/* > "$3" || exit 1
  ;;
*)
  echo "unknown subcommand: $1" >&2
  exit 2
  ;;
esac
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake asar: %v", err)
	}
}

// WriteFailingAsar writes a stub that prints stderr and exits with exitCode.
func WriteFailingAsar(t *testing.T, dir string, stderr string, exitCode int) {
	t.Helper()
	path := filepath.Join(dir, "asar")
	script := fmt.Sprintf("#!/bin/sh\necho %q >&2\nexit %d\n", stderr, exitCode)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write failing asar: %v", err)
	}
}
