// Package contrib fetches and builds libgpr2c from its pinned upstream
// sources: GPR2, langkit, the gprconfig knowledge base and AdaSAT.
package contrib

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

//go:embed pins.toml
var defaultPins []byte

// Repositories every manifest must pin; the build steps refer to them by name.
const (
	RepoGPR         = "gpr"
	RepoLangkit     = "langkit"
	RepoGPRConfigKB = "gprconfig_kb"
	RepoAdaSAT      = "adasat"
)

var requiredRepos = []string{RepoGPR, RepoLangkit, RepoGPRConfigKB, RepoAdaSAT}

// Repository is an upstream source checked out at a fixed revision. Path is
// relative to the contrib directory.
type Repository struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
	Rev  string `toml:"rev"`
	Path string `toml:"path"`
}

// Crate is an Alire dependency added to the build crate.
type Crate struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Manifest pins the upstream sources and Alire crates.
type Manifest struct {
	AlireCrate   string       `toml:"alire_crate"`
	Repositories []Repository `toml:"repository"`
	Crates       []Crate      `toml:"crate"`
}

// DefaultManifest returns the built-in pins.
func DefaultManifest() (*Manifest, error) {
	return ParseManifest(defaultPins)
}

// LoadManifest reads a pins file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pins file: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes and validates a pins document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid pins: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the four required repositories are pinned with safe
// revisions and paths, and that crate versions are exact semantic versions.
func (m *Manifest) Validate() error {
	if m.AlireCrate == "" {
		return fmt.Errorf("alire_crate cannot be empty")
	}

	seen := make(map[string]bool)
	for _, r := range m.Repositories {
		if r.Name == "" || r.URL == "" {
			return fmt.Errorf("repository needs a name and a url: %+v", r)
		}
		if seen[r.Name] {
			return fmt.Errorf("repository %q pinned twice", r.Name)
		}
		seen[r.Name] = true
		if err := validateRev(r.Rev); err != nil {
			return fmt.Errorf("repository %q: %w", r.Name, err)
		}
		if err := validateRelPath(r.Path); err != nil {
			return fmt.Errorf("repository %q: %w", r.Name, err)
		}
	}
	for _, name := range requiredRepos {
		if !seen[name] {
			return fmt.Errorf("repository %q must be pinned", name)
		}
	}

	for _, c := range m.Crates {
		if c.Name == "" {
			return fmt.Errorf("crate needs a name")
		}
		if _, err := semver.StrictNewVersion(c.Version); err != nil {
			return fmt.Errorf("crate %q: invalid version %q: %w", c.Name, c.Version, err)
		}
	}
	return nil
}

// Repository returns the pinned repository with the given name.
func (m *Manifest) Repository(name string) (Repository, bool) {
	for _, r := range m.Repositories {
		if r.Name == name {
			return r, true
		}
	}
	return Repository{}, false
}

// CrateArgs returns "name=version" arguments for `alr with`.
func (m *Manifest) CrateArgs() []string {
	args := make([]string, 0, len(m.Crates))
	for _, c := range m.Crates {
		args = append(args, c.Name+"="+c.Version)
	}
	return args
}

func validateRev(rev string) error {
	if rev == "" {
		return fmt.Errorf("revision cannot be empty")
	}
	if strings.HasPrefix(rev, "-") {
		return fmt.Errorf("revision cannot start with '-': %q", rev)
	}
	if strings.ContainsAny(rev, "\x00\n\r\t ") {
		return fmt.Errorf("revision contains whitespace or NUL: %q", rev)
	}
	return nil
}

func validateRelPath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if filepath.IsAbs(path) {
		return fmt.Errorf("path must be relative: %q", path)
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains NUL: %q", path)
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes contrib directory: %q", path)
	}
	return nil
}
