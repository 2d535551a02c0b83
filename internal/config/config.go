// Package config defines the patch configuration and its TOML loader.
package config

import (
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/fynrae/zalopatch/internal/messages"
)

// Strategy selects how the modified tree replaces the original archive.
type Strategy string

const (
	// StrategySwap renames the original archive to a backup and moves the
	// modified tree into its place.
	StrategySwap Strategy = "swap"
	// StrategyRepack repacks the modified tree into a fresh archive at the
	// original path, after renaming the original to the backup.
	StrategyRepack Strategy = "repack"
)

// BackupSuffix is appended to the archive filename to form the backup path.
const BackupSuffix = ".bak"

// UnpackedDirName is the fixed temporary extraction directory name, a sibling
// of the archive inside the resources folder.
const UnpackedDirName = "unpacked"

// Config holds every tunable of the patch pipeline. The zero value is not
// usable; start from Default.
type Config struct {
	ScriptURL      string   `toml:"script_url"`
	ScriptFilename string   `toml:"script_filename"`
	HTMLSubdir     string   `toml:"html_subdir"`
	HTMLFilename   string   `toml:"html_filename"`
	Marker         string   `toml:"marker"`
	ArchiveName    string   `toml:"archive_name"`
	BaseDir        string   `toml:"base_dir"`
	Strategy       Strategy `toml:"strategy"`
}

// Default returns the stock Zalo PC configuration.
func Default() Config {
	return Config{
		ScriptURL:      "https://raw.githubusercontent.com/fynrae/zalo-custom-reaction-PC/main/zalorcustomemoji.user.js",
		ScriptFilename: "zalorcustomemoji.user.js",
		HTMLSubdir:     "pc-dist",
		HTMLFilename:   "index.html",
		Marker:         "</body>",
		ArchiveName:    "app.asar",
		Strategy:       StrategySwap,
	}
}

// Load reads path and overlays it onto Default. Unknown keys are rejected so
// typos surface instead of silently reverting to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf(messages.ConfigReadFmt, path, err)
	}
	decoder := toml.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf(messages.ConfigParseFmt, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks structural requirements shared by Load and flag overrides.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ScriptURL) == "" {
		return fmt.Errorf(messages.ConfigMissingScriptURL)
	}
	if strings.TrimSpace(c.Marker) == "" {
		return fmt.Errorf(messages.ConfigMissingMarker)
	}
	for name, value := range map[string]string{
		"script_filename": c.ScriptFilename,
		"html_filename":   c.HTMLFilename,
		"archive_name":    c.ArchiveName,
	} {
		if value == "" || strings.ContainsAny(value, `/\`) {
			return fmt.Errorf(messages.ConfigBadFilenameFmt, name, value)
		}
	}
	switch c.Strategy {
	case StrategySwap, StrategyRepack:
	default:
		return fmt.Errorf(messages.ConfigUnknownStrategyFmt, string(c.Strategy))
	}
	return nil
}

// ScriptTag is the snippet injected into the entry document. The src is
// relative because the script lives next to the document.
func (c Config) ScriptTag() string {
	return fmt.Sprintf(`<script src="./%s"></script>`, c.ScriptFilename)
}
