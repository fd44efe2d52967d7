// Package session gives every command one init/finalize pair around its
// use of the GPR2 engine, plus the flags shared by project commands.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LegacyCodeHQ/gpr2go/gpr"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
	"github.com/spf13/cobra"
)

// NewBackend returns the backend commands initialize. Tests swap it for an
// in-process engine.
var NewBackend = gpr2c.Native

// With initializes the engine, runs fn and finalizes. The engine can only be
// initialized once per process, so a command calls With at most once.
func With(fn func(rt *gpr2c.Runtime) error) (err error) {
	rt, err := gpr2c.Initialize(NewBackend())
	if err != nil {
		if errors.Is(err, gpr2c.ErrNativeUnavailable) {
			return fmt.Errorf("%w; run 'gprq bootstrap' and rebuild with CGO_LDFLAGS set", err)
		}
		return fmt.Errorf("failed to initialize GPR2 engine: %w", err)
	}
	slog.Debug("gpr2 engine initialized")

	defer func() {
		if ferr := rt.Finalize(); ferr != nil && err == nil {
			err = fmt.Errorf("failed to finalize GPR2 engine: %w", ferr)
		}
	}()
	return fn(rt)
}

// AddScenarioFlag registers the repeatable -X NAME=VALUE flag.
func AddScenarioFlag(cmd *cobra.Command, values *[]string) {
	cmd.Flags().StringArrayVarP(values, "scenario", "X", nil, "Scenario variable NAME=VALUE (repeatable)")
}

// ParseScenario turns NAME=VALUE pairs into a context map.
func ParseScenario(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ctx := make(map[string]string, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid scenario variable %q (expected NAME=VALUE)", v)
		}
		ctx[name] = value
	}
	return ctx, nil
}

// LoadProject loads path with the given scenario variables.
func LoadProject(rt *gpr2c.Runtime, path string, scenario []string) (*gpr.Project, error) {
	ctx, err := ParseScenario(scenario)
	if err != nil {
		return nil, err
	}
	prj, err := gpr.Load(rt, path, gpr.LoadOptions{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	slog.Debug("project loaded", "path", prj.Path(), "tree", prj.Tree().ID)
	return prj, nil
}
