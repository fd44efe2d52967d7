package bootstrap

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/gpr2go/cmd/internal/cmdtest"
	"github.com/LegacyCodeHQ/gpr2go/contrib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	commands []contrib.Command
	fail     string
}

func (r *fakeRunner) Run(_ context.Context, c contrib.Command) (string, error) {
	r.commands = append(r.commands, c)
	if c.Name == r.fail {
		return "", errors.New(c.Name + " exited with status 2")
	}
	return "", nil
}

type fakeCheckouter struct {
	repos []string
}

func (c *fakeCheckouter) Checkout(_ context.Context, repo contrib.Repository, _ string) error {
	c.repos = append(c.repos, repo.Name)
	return nil
}

func usePipeline(t *testing.T, runner *fakeRunner, checkouter *fakeCheckouter) {
	t.Helper()
	prev := PipelineOptions
	PipelineOptions = func(log io.Writer) contrib.Options {
		return contrib.Options{
			Runner:     runner,
			Checkouter: checkouter,
			Env:        contrib.Env{"PATH": "/usr/bin"},
			Log:        log,
		}
	}
	t.Cleanup(func() { PipelineOptions = prev })
}

func TestBootstrap_DryRun(t *testing.T) {
	runner := &fakeRunner{}
	checkouter := &fakeCheckouter{}
	usePipeline(t, runner, checkouter)
	out := t.TempDir()

	stdout, _, err := cmdtest.Execute(NewCommand(), "--contrib", out, "--dry-run")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 14)
	assert.Equal(t, "checkout:gpr: git https://github.com/AdaCore/gpr.git@965de290e8caebb47d18b00e2c4638b4e36884ed -> "+filepath.Join(out, "contrib", "gpr"), lines[0])
	assert.True(t, strings.HasPrefix(lines[13], "gprbuild-gpr2c: gprbuild -j0 -p -P "))
	assert.Empty(t, runner.commands)
	assert.Empty(t, checkouter.repos)
}

func TestBootstrap_Run(t *testing.T) {
	runner := &fakeRunner{}
	checkouter := &fakeCheckouter{}
	usePipeline(t, runner, checkouter)
	out := t.TempDir()

	stdout, stderr, err := cmdtest.Execute(NewCommand(), "--contrib", out)
	require.NoError(t, err)

	libDir := filepath.Join(out, "contrib", "gpr", "bindings", "c", "build", "release", "lib")
	assert.Equal(t, "libgpr2c built in "+libDir+"\n"+
		"CGO_LDFLAGS=\"-L"+libDir+" -lgpr2c\"\n"+
		"Build with: go build -tags gpr2c ./...\n", stdout)
	assert.Contains(t, stderr, "==> alr-index: alr index --update-all")
	assert.Equal(t, []string{"gpr", "langkit", "gprconfig_kb", "adasat"}, checkouter.repos)
	assert.Len(t, runner.commands, 10)
}

func TestBootstrap_StepFailure(t *testing.T) {
	usePipeline(t, &fakeRunner{fail: "make"}, &fakeCheckouter{})

	_, _, err := cmdtest.Execute(NewCommand(), "--contrib", t.TempDir())

	require.EqualError(t, err, "bootstrap failed: step make-langkit: make exited with status 2")
}

func TestBootstrap_CustomPins(t *testing.T) {
	usePipeline(t, &fakeRunner{}, &fakeCheckouter{})
	dir := t.TempDir()
	pins := filepath.Join(dir, "pins.toml")
	require.NoError(t, os.WriteFile(pins, []byte("alire_crate = \"gpr_rust_alire\"\n[[repository]]\nname = \"gpr\"\n"), 0o644))

	_, _, err := cmdtest.Execute(NewCommand(), "--contrib", dir, "--pins", pins, "--dry-run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), pins)
}

func TestBootstrap_MissingPinsFile(t *testing.T) {
	usePipeline(t, &fakeRunner{}, &fakeCheckouter{})

	_, _, err := cmdtest.Execute(NewCommand(), "--pins", filepath.Join(t.TempDir(), "missing.toml"), "--dry-run")

	require.ErrorContains(t, err, "failed to read pins file")
}
