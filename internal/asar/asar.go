// Package asar wraps the external asar command-line tool for extracting and
// packing Electron resource archives.
package asar

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fynrae/zalopatch/internal/messages"
	"github.com/fynrae/zalopatch/internal/report"
)

// ErrSourceMissing indicates the extract or pack source does not exist.
var ErrSourceMissing = errors.New("source missing")

// ErrToolNotFound indicates the asar executable could not be invoked at all.
var ErrToolNotFound = errors.New("tool not found")

const toolName = "asar"

// ToolError captures a non-zero exit from the archive tool.
type ToolError struct {
	Command  []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed (exit %d)", strings.Join(e.Command, " "), e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Accessor invokes the asar tool. The zero value is not usable; use New.
type Accessor struct {
	sys System
	rep *report.Reporter

	tool string
}

// New returns an Accessor using the given System and Reporter.
func New(sys System, rep *report.Reporter) *Accessor {
	return &Accessor{sys: sys, rep: rep}
}

// ResolveTool locates the asar executable. It checks PATH first, then the npm
// global locations on Windows. When nothing can be verified it falls back to
// the bare command name with a warning: invocation may still succeed through
// the process's own resolution, and the eventual failure carries the tool's
// output for diagnosis.
func (a *Accessor) ResolveTool() string {
	if a.tool != "" {
		return a.tool
	}
	if path, err := a.sys.LookPath(toolName); err == nil {
		a.rep.Infof(messages.AsarFoundInPathFmt, a.rep.Path(path))
		a.tool = path
		return a.tool
	}
	if runtime.GOOS == "windows" {
		if appData := a.sys.Getenv("APPDATA"); appData != "" {
			for _, candidate := range []string{
				filepath.Join(appData, "npm", "asar.cmd"),
				filepath.Join(appData, "npm", "node_modules", "asar", "bin", "asar.cmd"),
			} {
				if info, err := a.sys.Stat(candidate); err == nil && !info.IsDir() {
					a.rep.Infof(messages.AsarFoundNpmGlobalFmt, a.rep.Path(candidate))
					a.tool = candidate
					return a.tool
				}
			}
		}
	}
	a.rep.Warnf(messages.AsarUnverifiedWarn)
	a.rep.Warnf(messages.AsarInstallHint)
	a.tool = toolName
	return a.tool
}

// Extract unpacks archivePath into destDir. An existing destDir is removed
// first; the contents are replaced, never merged. The original archive is
// never modified.
func (a *Accessor) Extract(archivePath string, destDir string) error {
	info, err := a.sys.Stat(archivePath)
	if err != nil || info.IsDir() {
		if err == nil {
			err = errors.New("is a directory")
		}
		return fmt.Errorf(messages.AsarSourceMissingFmt, archivePath, errors.Join(ErrSourceMissing, err))
	}

	if _, err := a.sys.Stat(destDir); err == nil {
		if err := a.sys.RemoveAll(destDir); err != nil {
			return fmt.Errorf(messages.AsarRemoveDestFmt, destDir, err)
		}
	}
	if err := a.sys.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf(messages.AsarCreateDestFmt, destDir, err)
	}

	a.rep.Infof(messages.AsarExtractingFmt, a.rep.Path(archivePath), a.rep.Path(destDir))
	return a.run("extract", archivePath, destDir)
}

// Pack repacks sourceDir into outputArchive. An existing archive at the output
// path is deleted first; failure to delete is a warning only, since the tool
// may overwrite it anyway.
func (a *Accessor) Pack(sourceDir string, outputArchive string) error {
	info, err := a.sys.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return fmt.Errorf(messages.AsarPackSourceMissingFmt, sourceDir, errors.Join(ErrSourceMissing, err))
	}

	if _, err := a.sys.Stat(outputArchive); err == nil {
		if err := a.sys.Remove(outputArchive); err != nil {
			a.rep.Warnf(messages.AsarRemoveStaleWarnFmt, outputArchive, err)
		}
	}

	a.rep.Infof(messages.AsarPackingFmt, a.rep.Path(sourceDir), a.rep.Path(outputArchive))
	return a.run("pack", sourceDir, outputArchive)
}

// run invokes the resolved tool and translates failures into the package's
// error taxonomy.
func (a *Accessor) run(args ...string) error {
	tool := a.ResolveTool()
	command := append([]string{tool}, args...)
	a.rep.Infof(messages.AsarRunningFmt, strings.Join(command, " "))

	stdout, stderr, err := a.sys.Run(tool, args...)
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf(messages.AsarToolNotFoundFmt, tool, errors.Join(ErrToolNotFound, err))
	}
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &ToolError{
		Command:  command,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		Err:      err,
	}
}
