package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/cmd/show/formatters"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"

	"github.com/spf13/cobra"
)

type watchOptions struct {
	outputFormat string
	scenario     []string
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		outputFormat: formatters.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "watch <project.gpr>",
		Short: "Reload a project and print its summary whenever a project file changes",
		Long: `Watch the directory of a project for changes to .gpr files. Each change
reloads the project and prints the same summary as 'gprq show'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	session.AddScenarioFlag(cmd, &opts.scenario)

	return cmd
}

func runWatch(cmd *cobra.Command, path string, opts *watchOptions) error {
	formatter, err := formatters.NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return session.With(func(rt *gpr2c.Runtime) error {
		w := &projectWatcher{
			rt:        rt,
			path:      path,
			scenario:  opts.scenario,
			formatter: formatter,
			out:       cmd.OutOrStdout(),
			errOut:    cmd.ErrOrStderr(),
		}
		return w.run(ctx)
	})
}
