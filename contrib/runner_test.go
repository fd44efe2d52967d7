package contrib

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_UsesOnlyCommandEnv(t *testing.T) {
	sh, err := filepathLookSh()
	if err != nil {
		t.Skip("sh not available")
	}

	var log bytes.Buffer
	out, err := ExecRunner{Log: &log}.Run(context.Background(), Command{
		Name: sh,
		Args: []string{"-c", "echo \"$GREETING-$HOME\""},
		Env:  Env{"GREETING": "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello-\n", out)
	assert.Equal(t, "hello-\n", log.String())
}

func TestExecRunner_ReportsStderr(t *testing.T) {
	sh, err := filepathLookSh()
	if err != nil {
		t.Skip("sh not available")
	}

	_, err = ExecRunner{}.Run(context.Background(), Command{
		Name: sh,
		Args: []string{"-c", "echo broken >&2; exit 3"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestExecRunner_MissingProgram(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{Name: "gpr2go-no-such-program"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpr2go-no-such-program not found")
}

func TestLookPath_PrefersCommandPath(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "pip")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755))

	assert.Equal(t, tool, lookPath("pip", "/nonexistent:"+dir))
	assert.Equal(t, "make", lookPath("make", dir))
	assert.Equal(t, "/bin/sh", lookPath("/bin/sh", dir))
}

func TestCommand_String(t *testing.T) {
	c := Command{Name: "make", Args: []string{"-C", "/src"}, Dir: "/work"}

	assert.Equal(t, "make -C /src (in /work)", c.String())
}

func filepathLookSh() (string, error) {
	for _, candidate := range []string{"/bin/sh", "/usr/bin/sh"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}
