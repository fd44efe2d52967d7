package contrib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFromOS_DropsAlirePrefix(t *testing.T) {
	env := EnvFromOS([]string{
		"PATH=/usr/bin",
		"ALIRE_PREFIX=/opt/alire",
		"GNAT_ALIRE_PREFIX=/opt/gnat",
		"EQUALS=a=b",
		"malformed",
	})

	assert.Equal(t, Env{"PATH": "/usr/bin", "EQUALS": "a=b"}, env)
}

func TestEnv_List_IsSorted(t *testing.T) {
	env := Env{"B": "2", "A": "1"}

	assert.Equal(t, []string{"A=1", "B=2"}, env.List())
	assert.Equal(t, []string{}, Env{}.List())
}

func TestEnv_PathLists(t *testing.T) {
	env := Env{"GPR_PROJECT_PATH": "/a"}

	env.AppendPath("GPR_PROJECT_PATH", "/b", "/c")
	assert.Equal(t, "/a:/b:/c", env["GPR_PROJECT_PATH"])

	env.PrependPath("GPR_PROJECT_PATH", "/z")
	assert.Equal(t, "/z:/a:/b:/c", env["GPR_PROJECT_PATH"])

	env.PrependPath("PATH", "/venv/bin")
	assert.Equal(t, "/venv/bin", env["PATH"])
}

func TestEnv_MergeExports(t *testing.T) {
	env := Env{"PATH": "/usr/bin"}
	output := `export PATH="/alire/bin:/usr/bin"
export GPR_PROJECT_PATH="/alire/xmlada:/alire/gnatcoll"
# generated by alr
export EMPTY=""
`

	require.NoError(t, env.MergeExports(output))

	assert.Equal(t, Env{
		"PATH":             "/alire/bin:/usr/bin",
		"GPR_PROJECT_PATH": "/alire/xmlada:/alire/gnatcoll",
		"EMPTY":            "",
	}, env)
}

func TestEnv_MergeExports_Unquoted(t *testing.T) {
	err := Env{}.MergeExports("export PATH=/usr/bin\n")

	assert.EqualError(t, err, `export PATH: value is not quoted: "/usr/bin"`)
}
