package contrib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type alireManifest struct {
	Name string `toml:"name"`
}

// alireCrateExists reports whether dir already holds an initialized crate.
// An alire.toml belonging to a different crate is an error rather than
// something to build on top of.
func alireCrateExists(dir, want string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, "alire.toml"))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read alire.toml: %w", err)
	}

	var m alireManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return false, fmt.Errorf("invalid alire.toml in %s: %w", dir, err)
	}
	if m.Name != want {
		return false, fmt.Errorf("%s holds crate %q, want %q", dir, m.Name, want)
	}
	return true, nil
}
