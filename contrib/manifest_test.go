package contrib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultManifest(t *testing.T) {
	m, err := DefaultManifest()
	require.NoError(t, err)

	gpr, ok := m.Repository(RepoGPR)
	require.True(t, ok)
	assert.Equal(t, "https://github.com/AdaCore/gpr.git", gpr.URL)
	assert.Equal(t, "965de290e8caebb47d18b00e2c4638b4e36884ed", gpr.Rev)

	adasat, ok := m.Repository(RepoAdaSAT)
	require.True(t, ok)
	assert.Equal(t, "langkit/langkit/adasat", adasat.Path)

	assert.Equal(t, []string{
		"gnatcoll=24.0.0",
		"gnatcoll_iconv=24.0.0",
		"gnatcoll_gmp=24.0.0",
		"xmlada=24.0.0",
	}, m.CrateArgs())
	assert.Equal(t, "gpr_rust_alire", m.AlireCrate)
}

func TestParseManifest_Invalid(t *testing.T) {
	base := string(defaultPins)

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "not toml",
			doc:     "alire_crate = ",
			wantErr: "invalid pins",
		},
		{
			name:    "missing required repository",
			doc:     strings.Replace(base, `name = "adasat"`, `name = "adasat2"`, 1),
			wantErr: `repository "adasat" must be pinned`,
		},
		{
			name:    "option-like revision",
			doc:     strings.Replace(base, "rev = \"965de290e8caebb47d18b00e2c4638b4e36884ed\"", `rev = "--upload-pack=evil"`, 1),
			wantErr: "revision cannot start with '-'",
		},
		{
			name:    "escaping path",
			doc:     strings.Replace(base, `path = "gprconfig_kb"`, `path = "../kb"`, 1),
			wantErr: "path escapes contrib directory",
		},
		{
			name:    "absolute path",
			doc:     strings.Replace(base, `path = "gprconfig_kb"`, `path = "/kb"`, 1),
			wantErr: "path must be relative",
		},
		{
			name:    "loose crate version",
			doc:     strings.Replace(base, `version = "24.0.0"`, `version = "^24"`, 1),
			wantErr: `crate "gnatcoll": invalid version "^24"`,
		},
		{
			name:    "duplicate repository",
			doc:     base + "\n[[repository]]\nname = \"gpr\"\nurl = \"https://example.com/gpr.git\"\nrev = \"main\"\npath = \"gpr2\"\n",
			wantErr: `repository "gpr" pinned twice`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.toml")
	require.NoError(t, os.WriteFile(path, defaultPins, 0o644))

	m, err := LoadManifest(path)

	require.NoError(t, err)
	assert.Len(t, m.Repositories, 4)
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.toml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}
