// Package messages centralizes user-facing strings and error format constants.
package messages

// Catalog messages for version discovery and base-directory location.
const (
	CatalogLocalAppDataMissing = "LOCALAPPDATA environment variable not found"
	CatalogBaseDirNotFoundFmt  = "could not determine a Zalo installation path containing version folders (checked %s)"
	CatalogReadBaseDirFmt      = "read base directory %s: %w"
	CatalogNoVersionsFmt       = "no Zalo version folder (e.g. 'Zalo-x.y.z') found in %s"
	CatalogUsingBaseDirFmt     = "Using Zalo base path: %s"
	CatalogScanning            = "Scanning for installed versions..."
	CatalogExpandBaseDirFmt    = "expand base directory %q: %w"
)

// Archive tool messages.
const (
	AsarFoundInPathFmt       = "Found 'asar' in PATH: %s"
	AsarFoundNpmGlobalFmt    = "Found 'asar' in npm global location: %s"
	AsarUnverifiedWarn       = "Could not locate the 'asar' executable; falling back to invoking 'asar' directly and relying on PATH resolution"
	AsarInstallHint          = "Ensure Node.js and npm are installed, then run: npm install -g asar"
	AsarSourceMissingFmt     = "archive source %s: %w"
	AsarPackSourceMissingFmt = "pack source directory %s: %w"
	AsarRemoveDestFmt        = "remove existing extraction directory %s: %w"
	AsarCreateDestFmt        = "create extraction directory %s: %w"
	AsarRemoveStaleWarnFmt   = "Could not remove existing archive %s: %v (the tool may still overwrite it)"
	AsarExtractingFmt        = "Extracting %s to %s"
	AsarPackingFmt           = "Packing %s to %s"
	AsarRunningFmt           = "Running command: %s"
	AsarToolNotFoundFmt      = "archive tool %q not found: %w"
)

// Fetch messages.
const (
	FetchDownloadingFmt = "Downloading %s to %s"
	FetchCreateDirFmt   = "create destination directory for %s: %w"
	FetchRequestFmt     = "build request for %s: %w"
	FetchTransportFmt   = "download %s: %w"
	FetchStatusFmt      = "download %s: unexpected status %s"
	FetchWriteFmt       = "write %s: %w"
	FetchDownloadedFmt  = "Downloaded script to %s"
)

// Injection messages.
const (
	InjectReadFmt           = "read document %s: %w"
	InjectWriteFmt          = "write document %s: %w"
	InjectUndecodableFmt    = "document %s could not be decoded with any known encoding"
	InjectMarkerNotFoundFmt = "injection marker %q not found in %s"
	InjectDecodedWithFmt    = "Read entry document with encoding %s"
	InjectAlreadyPresentFmt = "Script tag already present in %s; nothing to do"
	InjectSuccessFmt        = "Injected script tag into %s"
	InjectDocMissingRetry   = "Entry document not found yet, retrying shortly..."
	InjectPreviewUnchanged  = "No changes: script tag already present."
	InjectEncodeSnippetFmt  = "encode document %s with %s: %w"
)

// Orchestrator step headers and status messages.
const (
	PatchImportantNotice   = "Ensure the Zalo application is completely closed before patching (check for lingering Zalo processes)."
	PatchConfirmPrompt     = "Continue? [y/N]: "
	PatchDeclined          = "aborted by user"
	PatchStepSelectVersion = "--- Step 1: Selecting latest installed version ---"
	PatchStepClassify      = "--- Step 2: Inspecting resource state ---"
	PatchStepExtract       = "--- Step 3: Extracting packed archive ---"
	PatchStepDownload      = "--- Step 4: Downloading custom script ---"
	PatchStepInject        = "--- Step 5: Injecting script reference ---"
	PatchStepCommit        = "--- Step 6: Committing modified tree ---"

	PatchLatestVersionFmt   = "Latest installed version: %s at %s"
	PatchResourceMissingFmt = "packed archive not found at %s (and no unpacked tree is present)"
	PatchInvalidStateFmt    = "directory at %s does not contain the expected entry document %s; refusing to touch it"
	PatchAlreadyUnpacked    = "Resource tree is already unpacked in place; patching it directly (no backup will be taken this run)"
	PatchCleanupTempFmt     = "Cleaning up temporary extraction directory: %s"
	PatchCleanupTempWarnFmt = "Could not remove temporary directory %s: %v; remove it manually"
	PatchKeepPreexisting    = "Leaving the pre-existing unpacked tree in place"

	PatchStaleBackupWarnFmt = "Could not remove stale backup %s: %v; attempting to continue"
	PatchBackupRenameFmt    = "rename original archive %s to backup %s: %w"
	PatchBackupOrphanFmt    = "The original archive is untouched. The modified tree remains at %s"
	PatchSwapRenameFmt      = "rename modified tree %s into place at %s: %w"
	PatchRollbackOK         = "Rollback succeeded: the original archive has been restored."
	PatchRollbackFailedFmt  = "ROLLBACK FAILED: restore backup %s to %s manually, or move the modified tree %s into place yourself"
	PatchRepackFmt          = "repack modified tree %s into %s: %w"
	PatchBackupAtFmt        = "Original archive preserved at %s"
	PatchCommittedFmt       = "Modified tree now occupies %s"
	PatchDoneRestartNotice  = "Done. Restart Zalo completely for changes to take effect."
	PatchDryRunPackedFmt    = "Dry run: would extract %s, download %s, inject the script tag, and commit with the %q strategy."
	PatchDryRunDiffHeader   = "Dry run: injection preview for the unpacked entry document:"
	PatchDryRunNoMutation   = "Dry run: no filesystem changes were made."
)

// Restore messages.
const (
	RestoreNoBackupFmt       = "no backup found at %s; nothing to restore"
	RestoreArchivePresentFmt = "an archive file already exists at %s; refusing to overwrite it"
	RestoreMoveAsideFmt      = "move modified tree %s aside to %s: %w"
	RestoreMoveAsideBlocked  = "cannot move the modified tree aside: %s already exists; remove it and retry"
	RestoreRenameFmt         = "restore backup %s to %s: %w"
	RestoreMovedAsideFmt     = "Moved modified tree aside to %s"
	RestoreDoneFmt           = "Restored original archive at %s"
)

// Status messages.
const (
	StatusVersionFmt  = "Version:  %s"
	StatusFolderFmt   = "Folder:   %s"
	StatusStateFmt    = "State:    %s"
	StatusInjectedFmt = "Injected: %v"
	StatusBackupFmt   = "Backup:   %v"
)

// Generic filesystem error formats.
const (
	FailedStatFmt = "stat %s: %w"
)
