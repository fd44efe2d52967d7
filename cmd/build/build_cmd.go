package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/contrib"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
	"github.com/mattn/go-shellwords"

	"github.com/spf13/cobra"
)

// NewRunner returns the runner that executes gprbuild. Tests replace it.
var NewRunner = func(log io.Writer) contrib.Runner {
	return contrib.ExecRunner{Log: log}
}

type buildOptions struct {
	gprbuild string
	extra    string
	dryRun   bool
	scenario []string
}

// NewCommand returns a new build command instance.
func NewCommand() *cobra.Command {
	opts := &buildOptions{gprbuild: "gprbuild"}

	cmd := &cobra.Command{
		Use:   "build <project.gpr>",
		Short: "Build a project with gprbuild",
		Long: `Build a project with gprbuild, passing the project's scenario variables.

Example usage:
  gprq build lib.gpr -X MODE=release
  gprq build lib.gpr --extra "-cargs -fPIC"
  gprq build lib.gpr --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.gprbuild, "gprbuild", opts.gprbuild, "gprbuild executable")
	cmd.Flags().StringVar(&opts.extra, "extra", "", "Extra gprbuild arguments, split like a shell would")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the gprbuild command without running it")
	session.AddScenarioFlag(cmd, &opts.scenario)

	return cmd
}

func runBuild(cmd *cobra.Command, path string, opts *buildOptions) error {
	extra, err := shellwords.Parse(opts.extra)
	if err != nil {
		return fmt.Errorf("invalid --extra arguments: %w", err)
	}

	var c contrib.Command
	err = session.With(func(rt *gpr2c.Runtime) error {
		prj, err := session.LoadProject(rt, path, opts.scenario)
		if err != nil {
			return err
		}
		c = contrib.Command{
			Name: opts.gprbuild,
			Args: append(prj.GprbuildArgs(), extra...),
			Dir:  filepath.Dir(prj.Path()),
			Env:  contrib.EnvFromOS(os.Environ()),
		}
		return nil
	})
	if err != nil {
		return err
	}

	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), c)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := NewRunner(cmd.OutOrStdout()).Run(ctx, c); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}
