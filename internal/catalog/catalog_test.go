package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envSystem overrides environment lookups on top of the real filesystem.
type envSystem struct {
	RealSystem
	env map[string]string
}

func (s envSystem) Getenv(key string) string {
	return s.env[key]
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		want    Version
		ok      bool
	}{
		{name: "Zalo-1.2.3", want: Version{1, 2, 3}, ok: true},
		{name: "ZaloPC-23.4.1", want: Version{23, 4, 1}, ok: true},
		{name: "zalo-1.2.3", want: Version{1, 2, 3}, ok: true},
		{name: "ZALOPC-0.0.1", want: Version{0, 0, 1}, ok: true},
		{name: "Zalo-1.2.3-beta", want: Version{1, 2, 3}, ok: true},
		{name: "Zalo-1.2", ok: false},
		{name: "Zalo", ok: false},
		{name: "unrelated", ok: false},
		{name: "MyZalo-1.2.3", ok: false},
		{name: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVersion(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestVersionCompare(t *testing.T) {
	assert.Equal(t, 0, Version{1, 2, 3}.Compare(Version{1, 2, 3}))
	assert.Equal(t, -1, Version{1, 2, 3}.Compare(Version{1, 10, 0}))
	assert.Equal(t, 1, Version{1, 10, 0}.Compare(Version{1, 2, 3}))
	assert.Equal(t, -1, Version{1, 9, 9}.Compare(Version{2, 0, 0}))
	assert.Equal(t, 1, Version{1, 2, 4}.Compare(Version{1, 2, 3}))
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "1.10.0", Version{1, 10, 0}.String())
}

func TestSelectLatestNumericOrdering(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"Zalo-1.2.3", "Zalo-1.10.0", "unrelated"} {
		require.NoError(t, os.Mkdir(filepath.Join(base, name), 0o755))
	}

	cand, err := SelectLatest(RealSystem{}, base)
	require.NoError(t, err)
	assert.Equal(t, Version{1, 10, 0}, cand.Version)
	assert.Equal(t, filepath.Join(base, "Zalo-1.10.0"), cand.Dir)
}

func TestSelectLatestIgnoresFilesAndNonMatching(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "Zalo-2.0.1"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(base, "notes"), 0o755))
	// A file whose name parses must still be skipped.
	require.NoError(t, os.WriteFile(filepath.Join(base, "Zalo-9.9.9"), nil, 0o644))

	cand, err := SelectLatest(RealSystem{}, base)
	require.NoError(t, err)
	assert.Equal(t, Version{2, 0, 1}, cand.Version)
}

func TestSelectLatestNoCandidates(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "unrelated"), 0o755))

	_, err := SelectLatest(RealSystem{}, base)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoVersions)
}

func TestSelectLatestMissingBaseDir(t *testing.T) {
	_, err := SelectLatest(RealSystem{}, filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoVersions)
}

func TestLocateBaseDirPrefersConventionalLocations(t *testing.T) {
	local := t.TempDir()
	programsZalo := filepath.Join(local, "Programs", "Zalo")
	require.NoError(t, os.MkdirAll(filepath.Join(programsZalo, "Zalo-1.0.0"), 0o755))

	sys := envSystem{env: map[string]string{"LOCALAPPDATA": local}}
	dir, err := LocateBaseDir(sys)
	require.NoError(t, err)
	assert.Equal(t, programsZalo, dir)
}

func TestLocateBaseDirSecondLocation(t *testing.T) {
	local := t.TempDir()
	// Programs/Zalo exists but has no version folders; LOCALAPPDATA/Zalo does.
	require.NoError(t, os.MkdirAll(filepath.Join(local, "Programs", "Zalo"), 0o755))
	zalo := filepath.Join(local, "Zalo")
	require.NoError(t, os.MkdirAll(filepath.Join(zalo, "ZaloPC-3.1.4"), 0o755))

	sys := envSystem{env: map[string]string{"LOCALAPPDATA": local}}
	dir, err := LocateBaseDir(sys)
	require.NoError(t, err)
	assert.Equal(t, zalo, dir)
}

func TestLocateBaseDirLoosePrefixFallback(t *testing.T) {
	local := t.TempDir()
	programs := filepath.Join(local, "Programs")
	require.NoError(t, os.MkdirAll(filepath.Join(programs, "zalopc-custom"), 0o755))

	sys := envSystem{env: map[string]string{"LOCALAPPDATA": local}}
	dir, err := LocateBaseDir(sys)
	require.NoError(t, err)
	assert.Equal(t, programs, dir)
}

func TestLocateBaseDirNotFound(t *testing.T) {
	sys := envSystem{env: map[string]string{"LOCALAPPDATA": t.TempDir()}}
	_, err := LocateBaseDir(sys)
	assert.ErrorIs(t, err, ErrBaseDirNotFound)
}

func TestLocateBaseDirMissingEnv(t *testing.T) {
	sys := envSystem{env: map[string]string{}}
	_, err := LocateBaseDir(sys)
	assert.ErrorIs(t, err, ErrBaseDirNotFound)
}

func TestExpandBaseDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandBaseDir(filepath.Join("~", "apps"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "apps"), expanded)

	passthrough, err := ExpandBaseDir("/opt/zalo")
	require.NoError(t, err)
	assert.Equal(t, "/opt/zalo", passthrough)
}
