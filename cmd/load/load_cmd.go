package load

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/gpr"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"

	"github.com/spf13/cobra"
)

type loadOptions struct {
	outputFormat string
	scenario     []string
}

// NewCommand returns a new load command instance.
func NewCommand() *cobra.Command {
	opts := &loadOptions{outputFormat: "text"}

	cmd := &cobra.Command{
		Use:   "load <project.gpr>",
		Short: "Load a project tree and print its descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat, "Output format (text, json)")
	session.AddScenarioFlag(cmd, &opts.scenario)

	return cmd
}

func runLoad(cmd *cobra.Command, path string, opts *loadOptions) error {
	var write func(io.Writer, *gpr.Tree) error
	switch opts.outputFormat {
	case "text":
		write = writeText
	case "json":
		write = writeJSON
	default:
		return fmt.Errorf("unknown format: %s (valid options: text, json)", opts.outputFormat)
	}

	return session.With(func(rt *gpr2c.Runtime) error {
		prj, err := session.LoadProject(rt, path, opts.scenario)
		if err != nil {
			return err
		}
		return write(cmd.OutOrStdout(), prj.Tree())
	})
}

func writeJSON(w io.Writer, t *gpr.Tree) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeText(w io.Writer, t *gpr.Tree) error {
	var b strings.Builder
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-18s%s\n", label+":", value)
		}
	}

	field("Tree", t.ID)
	field("Root view", t.RootView)
	field("Config view", t.ConfigView)
	field("Runtime view", t.RuntimeView)
	field("Target", t.Target)
	field("Canonical target", t.CanonicalTarget)
	field("Search paths", strings.Join(t.SearchPaths, ", "))
	field("Src subdirs", t.SrcSubdirs)
	field("Subdirs", t.Subdirs)
	field("Build path", t.BuildPath)
	field("Views", strings.Join(t.Views, ", "))

	vars := make([]string, 0, len(t.Context))
	for _, name := range slices.Sorted(maps.Keys(t.Context)) {
		vars = append(vars, name+"="+t.Context[name])
	}
	field("Context", strings.Join(vars, " "))

	_, err := io.WriteString(w, b.String())
	return err
}
