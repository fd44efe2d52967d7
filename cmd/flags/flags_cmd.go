package flags

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"

	"github.com/spf13/cobra"
)

// NewCommand returns a new flags command instance.
func NewCommand() *cobra.Command {
	var scenario []string

	cmd := &cobra.Command{
		Use:   "flags <project.gpr>",
		Short: "Print linker flags for a library project",
		Long: `Print the linker flags that link against the library a project builds.

The output is suitable for CGO_LDFLAGS:
  CGO_LDFLAGS="$(gprq flags lib.gpr)" go build`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.With(func(rt *gpr2c.Runtime) error {
				prj, err := session.LoadProject(rt, args[0], scenario)
				if err != nil {
					return err
				}
				flags, err := prj.LinkFlags()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(flags, " "))
				return nil
			})
		},
	}

	session.AddScenarioFlag(cmd, &scenario)
	return cmd
}
