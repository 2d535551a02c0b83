// Package patcher drives the patch pipeline: version selection, resource
// state classification, extraction, script download, injection, and the
// backup/replace commit with best-effort rollback.
package patcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fynrae/zalopatch/internal/asar"
	"github.com/fynrae/zalopatch/internal/catalog"
	"github.com/fynrae/zalopatch/internal/config"
	"github.com/fynrae/zalopatch/internal/fetch"
	"github.com/fynrae/zalopatch/internal/inject"
	"github.com/fynrae/zalopatch/internal/messages"
	"github.com/fynrae/zalopatch/internal/report"
)

// ErrDocumentMissing indicates the entry document was still absent after the
// bounded post-extraction retry.
var ErrDocumentMissing = errors.New("entry document missing after retry")

// documentRetryDelay is the single bounded wait for the entry document to
// materialize after extraction.
const documentRetryDelay = time.Second

// Outcome is the terminal state of a run.
type Outcome int

const (
	// OutcomeDone means the pipeline completed and the modified tree is in place.
	OutcomeDone Outcome = iota
	// OutcomeAborted means the run stopped; the original resource is either
	// untouched or its state has been reported for manual recovery.
	OutcomeAborted
	// OutcomeRolledBack means the commit failed but the original archive was
	// restored from its backup.
	OutcomeRolledBack
)

// ExitCode maps the terminal state to a process exit code.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeDone:
		return 0
	case OutcomeRolledBack:
		return 2
	default:
		return 1
	}
}

// Archiver extracts and packs the resource archive.
type Archiver interface {
	Extract(archivePath string, destDir string) error
	Pack(sourceDir string, outputArchive string) error
}

// Fetcher downloads the custom script.
type Fetcher interface {
	Download(ctx context.Context, url string, destPath string) error
}

// Injector mutates and inspects the entry document.
type Injector interface {
	Inject(path string, snippet string, marker string) (inject.Result, error)
	Injected(path string, snippet string, marker string) (bool, error)
	Preview(path string, snippet string, marker string) (string, error)
}

// Orchestrator composes the pipeline collaborators. Construct with New and
// override individual fields in tests.
type Orchestrator struct {
	Config   config.Config
	System   System
	Catalog  catalog.System
	Archiver Archiver
	Fetcher  Fetcher
	Injector Injector
	Reporter *report.Reporter
	DryRun   bool

	// Sleep is the delay used by the bounded entry-document retry.
	Sleep func(time.Duration)
}

// New returns an Orchestrator wired to the real filesystem, archive tool,
// and network.
func New(cfg config.Config, rep *report.Reporter) *Orchestrator {
	return &Orchestrator{
		Config:   cfg,
		System:   RealSystem{},
		Catalog:  catalog.RealSystem{},
		Archiver: asar.New(asar.RealSystem{}, rep),
		Fetcher:  realFetcher{},
		Injector: realInjector{},
		Reporter: rep,
		Sleep:    time.Sleep,
	}
}

// Run executes the full pipeline. The returned error explains any outcome
// other than OutcomeDone; it is non-nil exactly when the outcome is Aborted
// or RolledBack.
func (o *Orchestrator) Run(ctx context.Context) (Outcome, error) {
	cfg := o.Config
	rep := o.Reporter

	rep.Stepf(messages.PatchStepSelectVersion)
	cand, layout, err := o.selectLatest()
	if err != nil {
		return OutcomeAborted, err
	}
	rep.Successf(messages.PatchLatestVersionFmt, cand.Version, rep.Path(cand.Dir))

	rep.Stepf(messages.PatchStepClassify)
	state := Classify(o.System, layout)
	switch state {
	case StateMissing:
		return OutcomeAborted, fmt.Errorf(messages.PatchResourceMissingFmt, layout.ArchivePath)
	case StateInvalid:
		return OutcomeAborted, fmt.Errorf(messages.PatchInvalidStateFmt, layout.ArchivePath,
			filepath.Join(cfg.HTMLSubdir, cfg.HTMLFilename))
	}

	if o.DryRun {
		return o.dryRun(layout, state)
	}

	// workDir is the unpacked tree the rest of the pipeline edits: the fresh
	// temp extraction for a packed archive, or the directory already occupying
	// the archive path.
	workDir := layout.TempDir
	freshExtract := false
	if state == StatePacked {
		rep.Stepf(messages.PatchStepExtract)
		if err := o.Archiver.Extract(layout.ArchivePath, layout.TempDir); err != nil {
			// The original archive is untouched; nothing to roll back.
			return OutcomeAborted, err
		}
		freshExtract = true
	} else {
		rep.Infof(messages.PatchAlreadyUnpacked)
		workDir = layout.ArchivePath
	}

	rep.Stepf(messages.PatchStepDownload)
	scriptDest := layout.ScriptDest(workDir, cfg.ScriptFilename)
	rep.Infof(messages.FetchDownloadingFmt, cfg.ScriptURL, rep.Path(scriptDest))
	if err := o.Fetcher.Download(ctx, cfg.ScriptURL, scriptDest); err != nil {
		o.cleanupFresh(layout, freshExtract)
		return OutcomeAborted, err
	}
	rep.Successf(messages.FetchDownloadedFmt, rep.Path(scriptDest))

	rep.Stepf(messages.PatchStepInject)
	htmlPath := layout.EntryHTML(workDir)
	result, err := o.injectWithRetry(htmlPath, cfg.ScriptTag(), cfg.Marker)
	if err != nil {
		o.cleanupFresh(layout, freshExtract)
		return OutcomeAborted, err
	}
	rep.Infof(messages.InjectDecodedWithFmt, result.Encoding)
	if result.AlreadyInjected {
		rep.Successf(messages.InjectAlreadyPresentFmt, rep.Path(htmlPath))
	} else {
		rep.Successf(messages.InjectSuccessFmt, rep.Path(htmlPath))
	}

	if state == StateUnpacked {
		// A previous run already committed the directory form; there is no
		// archive to replace and no backup to take.
		rep.Successf(messages.PatchDoneRestartNotice)
		return OutcomeDone, nil
	}

	rep.Stepf(messages.PatchStepCommit)
	if outcome, err := o.commit(layout); err != nil {
		return outcome, err
	}

	rep.Successf(messages.PatchCommittedFmt, rep.Path(layout.ArchivePath))
	rep.Successf(messages.PatchBackupAtFmt, rep.Path(layout.BackupPath))
	rep.Successf(messages.PatchDoneRestartNotice)
	return OutcomeDone, nil
}

// selectLatest resolves the base directory and picks the newest installed
// version.
func (o *Orchestrator) selectLatest() (catalog.Candidate, Layout, error) {
	baseDir := o.Config.BaseDir
	var err error
	if baseDir != "" {
		baseDir, err = catalog.ExpandBaseDir(baseDir)
	} else {
		baseDir, err = catalog.LocateBaseDir(o.Catalog)
	}
	if err != nil {
		return catalog.Candidate{}, Layout{}, err
	}
	o.Reporter.Infof(messages.CatalogUsingBaseDirFmt, o.Reporter.Path(baseDir))
	o.Reporter.Infof(messages.CatalogScanning)
	cand, err := catalog.SelectLatest(o.Catalog, baseDir)
	if err != nil {
		return catalog.Candidate{}, Layout{}, err
	}
	return cand, NewLayout(cand.Dir, o.Config), nil
}

// injectWithRetry injects into the entry document, waiting once for the file
// to materialize after extraction.
func (o *Orchestrator) injectWithRetry(path string, snippet string, marker string) (inject.Result, error) {
	if _, err := o.System.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return inject.Result{}, fmt.Errorf(messages.FailedStatFmt, path, err)
		}
		o.Reporter.Warnf(messages.InjectDocMissingRetry)
		o.Sleep(documentRetryDelay)
		if _, err := o.System.Stat(path); err != nil {
			return inject.Result{}, fmt.Errorf("%w: %s", ErrDocumentMissing, path)
		}
	}
	return o.Injector.Inject(path, snippet, marker)
}

// commit replaces the original packed archive with the modified tree using
// the configured strategy. Exactly one strategy executes per run.
func (o *Orchestrator) commit(layout Layout) (Outcome, error) {
	if err := o.takeBackup(layout); err != nil {
		return OutcomeAborted, err
	}
	switch o.Config.Strategy {
	case config.StrategyRepack:
		return o.commitRepack(layout)
	default:
		return o.commitSwap(layout)
	}
}

// takeBackup moves the original archive to the backup path. After it returns
// nil, the backup exists and the archive path is free. A stale backup is
// removed first; failure to remove it is a warning because the rename may
// still succeed.
func (o *Orchestrator) takeBackup(layout Layout) error {
	if _, err := o.System.Stat(layout.BackupPath); err == nil {
		if err := o.System.Remove(layout.BackupPath); err != nil {
			o.Reporter.Warnf(messages.PatchStaleBackupWarnFmt, layout.BackupPath, err)
		}
	}
	if err := o.System.Rename(layout.ArchivePath, layout.BackupPath); err != nil {
		// The original is untouched; the modified tree stays at the temp path
		// for inspection.
		o.Reporter.Errorf(messages.PatchBackupOrphanFmt, o.Reporter.Path(layout.TempDir))
		return fmt.Errorf(messages.PatchBackupRenameFmt, layout.ArchivePath, layout.BackupPath, err)
	}
	return nil
}

// commitSwap renames the modified tree into the archive's place. A failed
// rename triggers a best-effort rollback of the backup; that second failure
// is the one state requiring manual recovery and is reported as such.
func (o *Orchestrator) commitSwap(layout Layout) (Outcome, error) {
	if err := o.System.Rename(layout.TempDir, layout.ArchivePath); err != nil {
		swapErr := fmt.Errorf(messages.PatchSwapRenameFmt, layout.TempDir, layout.ArchivePath, err)
		return o.rollback(layout, swapErr)
	}
	return OutcomeDone, nil
}

// commitRepack packs the modified tree into a fresh archive at the original
// path and removes the temp tree on success.
func (o *Orchestrator) commitRepack(layout Layout) (Outcome, error) {
	if err := o.Archiver.Pack(layout.TempDir, layout.ArchivePath); err != nil {
		packErr := fmt.Errorf(messages.PatchRepackFmt, layout.TempDir, layout.ArchivePath, err)
		// The tool may have left a partial archive; clear it so the backup
		// can take the path back.
		_ = o.System.Remove(layout.ArchivePath)
		return o.rollback(layout, packErr)
	}
	o.Reporter.Infof(messages.PatchCleanupTempFmt, o.Reporter.Path(layout.TempDir))
	if err := o.System.RemoveAll(layout.TempDir); err != nil {
		o.Reporter.Warnf(messages.PatchCleanupTempWarnFmt, layout.TempDir, err)
	}
	return OutcomeDone, nil
}

// rollback restores the backup to the archive path after a failed commit.
// Both the backup and the modified tree are preserved in every branch.
func (o *Orchestrator) rollback(layout Layout, commitErr error) (Outcome, error) {
	if err := o.System.Rename(layout.BackupPath, layout.ArchivePath); err != nil {
		o.Reporter.Errorf(messages.PatchRollbackFailedFmt,
			o.Reporter.Path(layout.BackupPath),
			o.Reporter.Path(layout.ArchivePath),
			o.Reporter.Path(layout.TempDir))
		return OutcomeAborted, errors.Join(commitErr, err)
	}
	o.Reporter.Warnf(messages.PatchRollbackOK)
	return OutcomeRolledBack, commitErr
}

// cleanupFresh removes the temporary extraction directory, but only when this
// run created it. A pre-existing unpacked tree is never deleted.
func (o *Orchestrator) cleanupFresh(layout Layout, fresh bool) {
	if !fresh {
		o.Reporter.Infof(messages.PatchKeepPreexisting)
		return
	}
	o.Reporter.Infof(messages.PatchCleanupTempFmt, o.Reporter.Path(layout.TempDir))
	if err := o.System.RemoveAll(layout.TempDir); err != nil {
		o.Reporter.Warnf(messages.PatchCleanupTempWarnFmt, layout.TempDir, err)
	}
}

// dryRun reports the plan without mutating anything. For an already unpacked
// tree it includes a unified diff preview of the injection.
func (o *Orchestrator) dryRun(layout Layout, state State) (Outcome, error) {
	rep := o.Reporter
	if state == StatePacked {
		rep.Infof(messages.PatchDryRunPackedFmt,
			rep.Path(layout.ArchivePath), o.Config.ScriptURL, string(o.Config.Strategy))
		rep.Infof(messages.PatchDryRunNoMutation)
		return OutcomeDone, nil
	}
	htmlPath := layout.EntryHTML(layout.ArchivePath)
	diff, err := o.Injector.Preview(htmlPath, o.Config.ScriptTag(), o.Config.Marker)
	if err != nil {
		return OutcomeAborted, err
	}
	if diff == "" {
		rep.Successf(messages.InjectPreviewUnchanged)
	} else {
		rep.Infof(messages.PatchDryRunDiffHeader)
		rep.Plainf("%s", diff)
	}
	rep.Infof(messages.PatchDryRunNoMutation)
	return OutcomeDone, nil
}

// realFetcher adapts the fetch package to the Fetcher interface.
type realFetcher struct{}

func (realFetcher) Download(ctx context.Context, url string, destPath string) error {
	return fetch.Download(ctx, fetch.RealSystem{}, url, destPath)
}

// realInjector adapts the inject package to the Injector interface.
type realInjector struct{}

func (realInjector) Inject(path string, snippet string, marker string) (inject.Result, error) {
	return inject.InjectBefore(inject.RealSystem{}, path, snippet, marker)
}

func (realInjector) Injected(path string, snippet string, marker string) (bool, error) {
	return inject.Injected(inject.RealSystem{}, path, snippet, marker)
}

func (realInjector) Preview(path string, snippet string, marker string) (string, error) {
	return inject.Preview(inject.RealSystem{}, path, snippet, marker)
}
