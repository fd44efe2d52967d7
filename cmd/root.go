package cmd

import (
	"log/slog"
	"os"

	"github.com/LegacyCodeHQ/gpr2go/cmd/attr"
	"github.com/LegacyCodeHQ/gpr2go/cmd/bootstrap"
	"github.com/LegacyCodeHQ/gpr2go/cmd/build"
	"github.com/LegacyCodeHQ/gpr2go/cmd/flags"
	"github.com/LegacyCodeHQ/gpr2go/cmd/load"
	"github.com/LegacyCodeHQ/gpr2go/cmd/show"
	"github.com/LegacyCodeHQ/gpr2go/cmd/watch"

	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// verbose enables debug logging on stderr
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gprq",
		Short: "Query and build GNAT project files through the GPR2 engine",
		Long: `gprq loads GNAT project files (.gpr) with the GPR2 engine and answers
questions about them: attribute values, library settings and the flags
needed to link the libraries they build.

The engine is the native libgpr2c library. Run 'gprq bootstrap' to build it,
then rebuild gprq with -tags gpr2c.

Use 'gprq --help' to see all available commands, or 'gprq <command> --help'
for detailed information about a specific command.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(verbose)
		},
	}

	// Register subcommands
	cmd.AddCommand(load.NewCommand())
	cmd.AddCommand(attr.NewCommand())
	cmd.AddCommand(show.NewCommand())
	cmd.AddCommand(flags.NewCommand())
	cmd.AddCommand(build.NewCommand())
	cmd.AddCommand(watch.NewCommand())
	cmd.AddCommand(bootstrap.NewCommand())

	// Initialize annotations for version template
	cmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log engine calls and project loads to stderr")

	return cmd
}

// configureLogging installs the default slog logger. Debug records are only
// emitted with --verbose.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
