package contrib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command is one external program invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  Env
}

func (c Command) String() string {
	s := strings.Join(append([]string{c.Name}, c.Args...), " ")
	if c.Dir != "" {
		s += " (in " + c.Dir + ")"
	}
	return s
}

// Runner executes commands and returns their standard output.
type Runner interface {
	Run(ctx context.Context, c Command) (string, error)
}

// ExecRunner runs commands with os/exec. Output is echoed to Log as it is
// captured so long builds remain observable.
type ExecRunner struct {
	Log io.Writer
}

func (r ExecRunner) Run(ctx context.Context, c Command) (string, error) {
	cmd := exec.CommandContext(ctx, lookPath(c.Name, c.Env["PATH"]), c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env.List()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	if r.Log != nil {
		cmd.Stdout = io.MultiWriter(&stdout, r.Log)
		cmd.Stderr = io.MultiWriter(&stderr, r.Log)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s interrupted: %w", c.Name, ctx.Err())
		}
		return stdout.String(), commandError(c, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func commandError(c Command, err error, stderr string) error {
	var notFound *exec.Error
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s not found - please install it and make sure it is on PATH: %w", c.Name, err)
	}
	if stderr != "" {
		return fmt.Errorf("failed to run command: %s: %s", c, stderr)
	}
	return fmt.Errorf("failed to run command: %s: %w", c, err)
}

// lookPath resolves name against the command's own PATH, which differs from
// ours once a virtualenv or Alire toolchain has been prepended. exec falls
// back to the parent PATH when nothing matches.
func lookPath(name, pathList string) string {
	if strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
			return candidate
		}
	}
	return name
}
