// Package catalog discovers installed Zalo versions and picks the newest one.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/fynrae/zalopatch/internal/messages"
)

// ErrNoVersions indicates the base directory contains no parseable version folders.
var ErrNoVersions = errors.New("no installed versions found")

// ErrBaseDirNotFound indicates no conventional location held a Zalo installation.
var ErrBaseDirNotFound = errors.New("base directory not found")

var versionPattern = regexp.MustCompile(`^(?i)(?:ZaloPC|Zalo)-(\d+)\.(\d+)\.(\d+)`)

// Version is an ordered (major, minor, patch) triple parsed from a folder name.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Compare returns -1, 0, or 1 ordering v against other lexicographically by
// component.
func (v Version) Compare(other Version) int {
	pairs := [3][2]int{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Patch, other.Patch},
	}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// String renders the version in dotted form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ParseVersion extracts a Version from a folder name like "Zalo-1.2.3" or
// "ZaloPC-1.2.3". The second return is false when the name does not match;
// non-matching names are filtered by callers, never treated as errors.
func ParseVersion(name string) (Version, bool) {
	match := versionPattern.FindStringSubmatch(name)
	if match == nil {
		return Version{}, false
	}
	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])
	patch, _ := strconv.Atoi(match[3])
	return Version{Major: major, Minor: minor, Patch: patch}, true
}

// Candidate is one discovered installation folder.
type Candidate struct {
	Version Version
	Dir     string
}

// SelectLatest enumerates the immediate subdirectories of baseDir and returns
// the candidate with the maximum version. Folder names that do not parse are
// skipped. The scan is deterministic: entries arrive sorted by name and only a
// strictly greater version displaces the current pick.
func SelectLatest(sys System, baseDir string) (Candidate, error) {
	entries, err := sys.ReadDir(baseDir)
	if err != nil {
		return Candidate{}, fmt.Errorf(messages.CatalogReadBaseDirFmt, baseDir, err)
	}

	var best Candidate
	found := false
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		version, ok := ParseVersion(entry.Name())
		if !ok {
			continue
		}
		if !found || version.Compare(best.Version) > 0 {
			best = Candidate{Version: version, Dir: filepath.Join(baseDir, entry.Name())}
			found = true
		}
	}
	if !found {
		return Candidate{}, fmt.Errorf("%w: %s", ErrNoVersions, fmt.Sprintf(messages.CatalogNoVersionsFmt, baseDir))
	}
	return best, nil
}

// LocateBaseDir finds the directory expected to contain versioned installation
// folders. It checks the conventional locations under LOCALAPPDATA first,
// preferring one that already holds a parseable version folder, then falls
// back to scanning Programs for a folder with a loose zalo- prefix.
func LocateBaseDir(sys System) (string, error) {
	localAppData := sys.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		return "", fmt.Errorf("%w: %s", ErrBaseDirNotFound, messages.CatalogLocalAppDataMissing)
	}

	candidates := []string{
		filepath.Join(localAppData, "Programs", "Zalo"),
		filepath.Join(localAppData, "Zalo"),
	}
	for _, dir := range candidates {
		if hasVersionFolder(sys, dir) {
			return dir, nil
		}
	}

	programs := filepath.Join(localAppData, "Programs")
	if entries, err := sys.ReadDir(programs); err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := strings.ToLower(entry.Name())
			if strings.HasPrefix(name, "zalo-") || strings.HasPrefix(name, "zalopc-") {
				return programs, nil
			}
		}
	}

	checked := strings.Join(append(candidates, programs), ", ")
	return "", fmt.Errorf("%w: %s", ErrBaseDirNotFound, fmt.Sprintf(messages.CatalogBaseDirNotFoundFmt, checked))
}

// ExpandBaseDir resolves a user-supplied base directory override, expanding a
// leading ~ to the home directory.
func ExpandBaseDir(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.CatalogExpandBaseDirFmt, path, err)
	}
	return expanded, nil
}

// hasVersionFolder reports whether dir contains at least one parseable version
// folder.
func hasVersionFolder(sys System, dir string) bool {
	entries, err := sys.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, ok := ParseVersion(entry.Name()); ok {
			return true
		}
	}
	return false
}
