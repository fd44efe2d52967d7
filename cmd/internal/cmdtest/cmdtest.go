// Package cmdtest holds helpers shared by command tests.
package cmdtest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c/gpr2ctest"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// HelloSource is the project file written by WriteProject.
const HelloSource = `library project Ada_Hello is
   for Source_Dirs use ("src");
   for Object_Dir use "obj";
   for Library_Name use "ada_hello";
   for Library_Dir use "lib";
   for Library_Kind use "static-pic";
end Ada_Hello;
`

// HelloAttributes matches HelloSource.
func HelloAttributes() map[string]any {
	return map[string]any{
		"library_name": "ada_hello",
		"library_dir":  "lib",
		"library_kind": "static-pic",
		"source_dirs":  []string{"src"},
		"object_dir":   "obj",
	}
}

// UseEngine installs a fresh in-process engine as the session backend.
func UseEngine(t *testing.T) *gpr2ctest.Engine {
	t.Helper()
	engine := gpr2ctest.NewEngine()
	prev := session.NewBackend
	session.NewBackend = func() gpr2c.Backend { return engine }
	t.Cleanup(func() { session.NewBackend = prev })
	return engine
}

// WriteProject writes ada_hello.gpr into a temp directory, registers it with
// engine and returns the directory and the canonical project path.
func WriteProject(t *testing.T, engine *gpr2ctest.Engine, attrs map[string]any) (string, string) {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	path := filepath.Join(dir, "ada_hello.gpr")
	require.NoError(t, os.WriteFile(path, []byte(HelloSource), 0o644))
	engine.AddProject(path, gpr2ctest.Project{Name: "ada_hello", Attributes: attrs})
	return dir, path
}

// Execute runs cmd with args and returns what it wrote.
func Execute(cmd *cobra.Command, args ...string) (string, string, error) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// Normalize replaces dir with $PROJECT so output can be compared with
// golden files.
func Normalize(output, dir string) string {
	return strings.ReplaceAll(output, dir, "$PROJECT")
}
