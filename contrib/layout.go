package contrib

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Layout places the bootstrap's working trees under one output directory.
type Layout struct {
	OutDir string
}

// NewLayout expands a leading ~ in outDir and makes it absolute.
func NewLayout(outDir string) (Layout, error) {
	expanded, err := homedir.Expand(outDir)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to expand %s: %w", outDir, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to resolve %s: %w", outDir, err)
	}
	return Layout{OutDir: abs}, nil
}

// Contrib is the directory holding the upstream checkouts and the venv.
func (l Layout) Contrib() string {
	return filepath.Join(l.OutDir, "contrib")
}

// Repo returns where repo is checked out.
func (l Layout) Repo(repo Repository) string {
	return filepath.Join(l.Contrib(), filepath.FromSlash(repo.Path))
}

// Venv is the Python virtualenv used to build langkit.
func (l Layout) Venv() string {
	return filepath.Join(l.Contrib(), "venv")
}

// AlireCrate is the Alire library crate that pulls in GNATCOLL and XML/Ada.
func (l Layout) AlireCrate(name string) string {
	return filepath.Join(l.OutDir, name)
}
