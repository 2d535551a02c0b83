package patcher

import (
	"fmt"

	"github.com/fynrae/zalopatch/internal/messages"
)

// Restore puts the original archive back from its backup. When a committed
// directory occupies the archive path it is moved aside to the temp path
// first, never deleted, so the modified tree survives the restore.
func (o *Orchestrator) Restore() error {
	_, layout, err := o.selectLatest()
	if err != nil {
		return err
	}
	rep := o.Reporter

	if _, err := o.System.Stat(layout.BackupPath); err != nil {
		return fmt.Errorf(messages.RestoreNoBackupFmt, layout.BackupPath)
	}

	if info, err := o.System.Stat(layout.ArchivePath); err == nil {
		if !info.IsDir() {
			return fmt.Errorf(messages.RestoreArchivePresentFmt, layout.ArchivePath)
		}
		if _, err := o.System.Stat(layout.TempDir); err == nil {
			return fmt.Errorf(messages.RestoreMoveAsideBlocked, layout.TempDir)
		}
		if err := o.System.Rename(layout.ArchivePath, layout.TempDir); err != nil {
			return fmt.Errorf(messages.RestoreMoveAsideFmt, layout.ArchivePath, layout.TempDir, err)
		}
		rep.Infof(messages.RestoreMovedAsideFmt, rep.Path(layout.TempDir))
	}

	if err := o.System.Rename(layout.BackupPath, layout.ArchivePath); err != nil {
		return fmt.Errorf(messages.RestoreRenameFmt, layout.BackupPath, layout.ArchivePath, err)
	}
	rep.Successf(messages.RestoreDoneFmt, rep.Path(layout.ArchivePath))
	return nil
}
