package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/LegacyCodeHQ/gpr2go/contrib"

	"github.com/spf13/cobra"
)

// PipelineOptions returns the options the pipeline runs with. Tests
// replace it to avoid running git and the Ada toolchain.
var PipelineOptions = func(log io.Writer) contrib.Options {
	return contrib.Options{Log: log}
}

type bootstrapOptions struct {
	outDir string
	pins   string
	dryRun bool
}

// NewCommand returns a new bootstrap command instance.
func NewCommand() *cobra.Command {
	opts := &bootstrapOptions{outDir: "~/.cache/gpr2go"}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Fetch and build libgpr2c from pinned upstream sources",
		Long: `Fetch the pinned GPR2, Langkit, gprconfig_kb and AdaSAT sources, build their
Ada dependencies with Alire and compile libgpr2c.

Requires git, alr, python3, make and gprbuild on PATH. When it finishes, the
CGO_LDFLAGS line it prints links this module's native backend:

  CGO_LDFLAGS="..." go build -tags gpr2c ./...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.outDir, "contrib", opts.outDir, "Directory receiving the checkouts and the Alire crate")
	cmd.Flags().StringVar(&opts.pins, "pins", "", "Pins file overriding the built-in upstream revisions (TOML)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the build plan without running it")

	return cmd
}

func runBootstrap(cmd *cobra.Command, opts *bootstrapOptions) error {
	manifest, err := loadManifest(opts.pins)
	if err != nil {
		return err
	}
	layout, err := contrib.NewLayout(opts.outDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	pipeline, err := contrib.NewPipeline(layout, manifest, PipelineOptions(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, line := range pipeline.Plan() {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	fmt.Fprintf(out, "libgpr2c built in %s\n", result.LibDir)
	fmt.Fprintf(out, "CGO_LDFLAGS=%q\n", result.LDFlags())
	fmt.Fprintln(out, "Build with: go build -tags gpr2c ./...")
	return nil
}

func loadManifest(path string) (*contrib.Manifest, error) {
	if path == "" {
		return contrib.DefaultManifest()
	}
	return contrib.LoadManifest(path)
}
