package attr

import (
	"encoding/json"
	"fmt"

	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/gpr"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"

	"github.com/spf13/cobra"
)

type attrOptions struct {
	outputFormat string
	pkg          string
	index        string
	view         string
	scenario     []string
}

// NewCommand returns a new attr command instance.
func NewCommand() *cobra.Command {
	opts := &attrOptions{outputFormat: "text"}

	cmd := &cobra.Command{
		Use:   "attr <project.gpr> <attribute>",
		Short: "Print the value of a project attribute",
		Long: `Print the value of a project attribute as the engine reports it.

A list value is printed one item per line.

Example usage:
  gprq attr lib.gpr Library_Name
  gprq attr lib.gpr Switches --pkg Compiler --index Ada
  gprq attr lib.gpr Source_Dirs -f json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttr(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", opts.outputFormat, "Output format (text, json)")
	cmd.Flags().StringVar(&opts.pkg, "pkg", "", "Package holding the attribute (e.g. Compiler)")
	cmd.Flags().StringVar(&opts.index, "index", "", "Attribute index (e.g. Ada)")
	cmd.Flags().StringVar(&opts.view, "view", "", "View to query (default: the root view)")
	session.AddScenarioFlag(cmd, &opts.scenario)

	return cmd
}

func runAttr(cmd *cobra.Command, path, name string, opts *attrOptions) error {
	if opts.outputFormat != "text" && opts.outputFormat != "json" {
		return fmt.Errorf("unknown format: %s (valid options: text, json)", opts.outputFormat)
	}

	return session.With(func(rt *gpr2c.Runtime) error {
		prj, err := session.LoadProject(rt, path, opts.scenario)
		if err != nil {
			return err
		}
		attr, err := prj.Attribute(gpr.AttributeQuery{
			Name:  name,
			Pkg:   opts.pkg,
			Index: opts.index,
			View:  opts.view,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if opts.outputFormat == "json" {
			data, err := json.MarshalIndent(attr, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if v, ok := attr.Value.Single(); ok {
			fmt.Fprintln(out, v)
			return nil
		}
		items, _ := attr.Value.List()
		for _, item := range items {
			fmt.Fprintln(out, item)
		}
		return nil
	})
}
