package patcher

import (
	"github.com/fynrae/zalopatch/internal/catalog"
	"github.com/fynrae/zalopatch/internal/messages"
)

// StatusInfo summarizes the patch state of the newest installed version.
type StatusInfo struct {
	Candidate     catalog.Candidate
	State         State
	Injected      bool
	BackupPresent bool
}

// Status classifies the newest installed version without mutating anything.
func (o *Orchestrator) Status() (StatusInfo, error) {
	cand, layout, err := o.selectLatest()
	if err != nil {
		return StatusInfo{}, err
	}

	info := StatusInfo{
		Candidate: cand,
		State:     Classify(o.System, layout),
	}
	if _, err := o.System.Stat(layout.BackupPath); err == nil {
		info.BackupPresent = true
	}
	if info.State == StateUnpacked {
		injected, err := o.Injector.Injected(layout.EntryHTML(layout.ArchivePath),
			o.Config.ScriptTag(), o.Config.Marker)
		if err != nil {
			return StatusInfo{}, err
		}
		info.Injected = injected
	}
	return info, nil
}

// Report prints the status summary through the orchestrator's reporter.
func (s StatusInfo) Report(o *Orchestrator) {
	rep := o.Reporter
	rep.Plainf(messages.StatusVersionFmt, s.Candidate.Version)
	rep.Plainf(messages.StatusFolderFmt, s.Candidate.Dir)
	rep.Plainf(messages.StatusStateFmt, s.State)
	rep.Plainf(messages.StatusInjectedFmt, s.Injected)
	rep.Plainf(messages.StatusBackupFmt, s.BackupPresent)
}
