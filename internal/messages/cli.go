package messages

// CLI messages for commands and flags.
const (
	// RootUse is the CLI command name.
	RootUse = "zalopatch"
	// RootShort is the short description for the root command.
	RootShort = "Patch the newest installed Zalo PC with a custom reaction script"
	RootLong  = "zalopatch locates the newest installed Zalo PC version, unpacks its app.asar,\n" +
		"injects a custom userscript into the HTML entry point, and commits the modified\n" +
		"tree back in place with a recoverable backup."

	VersionTemplate = "{{.Version}}\n"
	VersionFullFmt  = "%s (commit %s)"

	RootFlagYes      = "Skip the confirmation prompt"
	RootFlagDryRun   = "Report what would be done without modifying the installation"
	RootFlagBaseDir  = "Base directory containing Zalo version folders (overrides auto-discovery)"
	RootFlagStrategy = "Commit strategy: swap (rename with backup) or repack (repack archive in place)"
	RootFlagConfig   = "Path to a zalopatch.toml config file"

	StatusUse   = "status"
	StatusShort = "Report the patch state of the newest installed version"

	RestoreUse   = "restore"
	RestoreShort = "Restore the original archive from its backup"
)

// Config messages.
const (
	ConfigReadFmt            = "read config %s: %w"
	ConfigParseFmt           = "parse config %s: %w"
	ConfigMissingScriptURL   = "config: script_url is required"
	ConfigBadFilenameFmt     = "config: %s must be a bare filename, got %q"
	ConfigMissingMarker      = "config: marker is required"
	ConfigUnknownStrategyFmt = "config: unknown strategy %q (supported: swap, repack)"
)
