// Package report renders console output for the patch pipeline.
//
// All presentation state (colors, prefixes) lives on the Reporter so callers
// receive it as an injected collaborator rather than reaching for globals.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter writes colored status lines to a single destination writer.
type Reporter struct {
	w io.Writer

	info      *color.Color
	success   *color.Color
	warn      *color.Color
	errc      *color.Color
	highlight *color.Color
	step      *color.Color
	important *color.Color
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{
		w:         w,
		info:      color.New(color.FgCyan),
		success:   color.New(color.FgGreen),
		warn:      color.New(color.FgYellow),
		errc:      color.New(color.FgRed),
		highlight: color.New(color.FgMagenta),
		step:      color.New(color.FgBlue, color.Bold),
		important: color.New(color.FgYellow, color.Bold),
	}
}

// Discard returns a Reporter that swallows all output. Intended for tests.
func Discard() *Reporter {
	return New(io.Discard)
}

// Infof prints a general progress line.
func (r *Reporter) Infof(format string, args ...any) {
	_, _ = r.info.Fprintf(r.w, "[*] "+format+"\n", args...)
}

// Successf prints a success line.
func (r *Reporter) Successf(format string, args ...any) {
	_, _ = r.success.Fprintf(r.w, "[+] "+format+"\n", args...)
}

// Warnf prints a warning line.
func (r *Reporter) Warnf(format string, args ...any) {
	_, _ = r.warn.Fprintf(r.w, "[!] "+format+"\n", args...)
}

// Errorf prints an error line.
func (r *Reporter) Errorf(format string, args ...any) {
	_, _ = r.errc.Fprintf(r.w, "[!] "+format+"\n", args...)
}

// Stepf prints a step header.
func (r *Reporter) Stepf(format string, args ...any) {
	_, _ = r.step.Fprintf(r.w, "\n"+format+"\n", args...)
}

// Importantf prints a high-visibility notice.
func (r *Reporter) Importantf(format string, args ...any) {
	_, _ = r.important.Fprintf(r.w, "[!] "+format+"\n", args...)
}

// Plainf prints an uncolored line, e.g. diff output.
func (r *Reporter) Plainf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format+"\n", args...)
}

// Path renders a filesystem path with highlight styling for embedding in messages.
func (r *Reporter) Path(p string) string {
	return r.highlight.Sprint(p)
}
