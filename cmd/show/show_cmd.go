package show

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/cmd/show/formatters"
	"github.com/LegacyCodeHQ/gpr2go/gpr"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"

	"github.com/spf13/cobra"
)

type showOptions struct {
	outputFormat string
	scenario     []string
}

// NewCommand returns a new show command instance.
func NewCommand() *cobra.Command {
	opts := &showOptions{
		outputFormat: formatters.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "show <project.gpr>",
		Short: "Show a summary of a project",
		Long: `Show the name, source directories and library settings of a project.

The library section is only printed for library projects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], opts)
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

func runShow(cmd *cobra.Command, path string, opts *showOptions) error {
	formatter, err := formatters.NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	return session.With(func(rt *gpr2c.Runtime) error {
		prj, err := session.LoadProject(rt, path, opts.scenario)
		if err != nil {
			return err
		}
		summary, err := Summarize(prj)
		if err != nil {
			return err
		}
		output, err := formatter.Format(summary)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	})
}

// isUndefinedAttribute reports whether the engine itself answered that the
// attribute has no value. Failures to reach the engine carry no error name.
func isUndefinedAttribute(err error) bool {
	var gerr *gpr.Error
	return errors.As(err, &gerr) && gerr.Kind == gpr.CallError && gerr.Name != ""
}

// Summarize collects what show reports about prj. Projects without a
// Library_Name are summarized without a library section.
func Summarize(prj *gpr.Project) (formatters.Summary, error) {
	name, err := prj.Name()
	if err != nil {
		return formatters.Summary{}, err
	}
	dirs, err := prj.SourceDirs()
	if err != nil {
		return formatters.Summary{}, err
	}
	summary := formatters.Summary{
		Name:       name,
		Path:       prj.Path(),
		SourceDirs: dirs,
	}

	libName, err := prj.LibraryName()
	if isUndefinedAttribute(err) {
		slog.Debug("not a library project", "path", prj.Path(), "error", err)
		return summary, nil
	}
	if err != nil {
		return formatters.Summary{}, err
	}
	libDir, err := prj.LibraryDir()
	if err != nil {
		return formatters.Summary{}, err
	}
	kind, err := prj.LibraryKind()
	if err != nil {
		return formatters.Summary{}, err
	}

	summary.Library = &formatters.Library{
		Name: libName,
		Dir:  libDir,
		Kind: kind.String(),
	}
	return summary, nil
}
