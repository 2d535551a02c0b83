package patcher

import (
	"path/filepath"

	"github.com/fynrae/zalopatch/internal/config"
)

// State classifies the current on-disk representation of the packed resource.
type State int

const (
	// StateMissing means neither a packed archive nor an unpacked tree exists.
	StateMissing State = iota
	// StatePacked means a regular archive file occupies the resource path.
	StatePacked
	// StateUnpacked means a directory with the expected entry document
	// occupies the resource path, left by a previous committed run.
	StateUnpacked
	// StateInvalid means a directory occupies the resource path but lacks the
	// expected entry document; the run must not touch it.
	StateInvalid
)

// String names the state for status output.
func (s State) String() string {
	switch s {
	case StatePacked:
		return "packed"
	case StateUnpacked:
		return "unpacked"
	case StateInvalid:
		return "invalid"
	default:
		return "missing"
	}
}

// Layout fixes every path the pipeline touches for one installation version.
type Layout struct {
	ResourcesDir string
	ArchivePath  string
	BackupPath   string
	TempDir      string
	htmlSubdir   string
	htmlFilename string
}

// NewLayout derives the fixed paths from a version folder and config.
func NewLayout(versionDir string, cfg config.Config) Layout {
	resources := filepath.Join(versionDir, "resources")
	archive := filepath.Join(resources, cfg.ArchiveName)
	return Layout{
		ResourcesDir: resources,
		ArchivePath:  archive,
		BackupPath:   archive + config.BackupSuffix,
		TempDir:      filepath.Join(resources, config.UnpackedDirName),
		htmlSubdir:   cfg.HTMLSubdir,
		htmlFilename: cfg.HTMLFilename,
	}
}

// EntryHTML returns the injection target inside the given unpacked tree root.
func (l Layout) EntryHTML(treeRoot string) string {
	return filepath.Join(treeRoot, l.htmlSubdir, l.htmlFilename)
}

// ScriptDest returns the download destination inside the given tree root.
func (l Layout) ScriptDest(treeRoot string, scriptFilename string) string {
	return filepath.Join(treeRoot, l.htmlSubdir, scriptFilename)
}

// Classify inspects the resource path. A directory qualifies as Unpacked only
// when it contains the expected entry document; an unrecognized directory is
// Invalid and the caller must abort without touching it.
func Classify(sys System, layout Layout) State {
	info, err := sys.Stat(layout.ArchivePath)
	if err != nil {
		return StateMissing
	}
	if !info.IsDir() {
		return StatePacked
	}
	entry := layout.EntryHTML(layout.ArchivePath)
	if entryInfo, err := sys.Stat(entry); err == nil && !entryInfo.IsDir() {
		return StateUnpacked
	}
	return StateInvalid
}
