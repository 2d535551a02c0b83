package report

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newPlainReporter(t *testing.T) (*Reporter, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	var buf bytes.Buffer
	return New(&buf), &buf
}

func TestPrefixes(t *testing.T) {
	rep, buf := newPlainReporter(t)

	rep.Infof("scanning %s", "dir")
	rep.Successf("done")
	rep.Warnf("careful")
	rep.Errorf("broken")
	rep.Importantf("close the app")
	rep.Plainf("raw %d", 7)

	want := "[*] scanning dir\n" +
		"[+] done\n" +
		"[!] careful\n" +
		"[!] broken\n" +
		"[!] close the app\n" +
		"raw 7\n"
	assert.Equal(t, want, buf.String())
}

func TestStepfAddsLeadingBlankLine(t *testing.T) {
	rep, buf := newPlainReporter(t)
	rep.Stepf("--- Step 1 ---")
	assert.Equal(t, "\n--- Step 1 ---\n", buf.String())
}

func TestPathReturnsInput(t *testing.T) {
	rep, _ := newPlainReporter(t)
	assert.Equal(t, "/tmp/x", rep.Path("/tmp/x"))
}

func TestDiscardSwallowsOutput(t *testing.T) {
	rep := Discard()
	rep.Infof("nothing to see")
	rep.Errorf("still nothing")
}
