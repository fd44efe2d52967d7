package load

import (
	"testing"

	"github.com/LegacyCodeHQ/gpr2go/cmd/internal/cmdtest"
	"github.com/LegacyCodeHQ/gpr2go/gpr"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c/gpr2ctest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Text(t *testing.T) {
	engine := cmdtest.UseEngine(t)
	dir, path := cmdtest.WriteProject(t, engine, cmdtest.HelloAttributes())

	stdout, _, err := cmdtest.Execute(NewCommand(), path, "-X", "MODE=debug", "-X", "ARCH=x86")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "load_text", []byte(cmdtest.Normalize(stdout, dir)))
}

func TestLoad_JSON(t *testing.T) {
	engine := cmdtest.UseEngine(t)
	dir, path := cmdtest.WriteProject(t, engine, cmdtest.HelloAttributes())

	stdout, _, err := cmdtest.Execute(NewCommand(), path, "--format", "json")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "load_json", []byte(cmdtest.Normalize(stdout, dir)))
}

func TestLoad_SendsScenarioContext(t *testing.T) {
	engine := cmdtest.UseEngine(t)
	_, path := cmdtest.WriteProject(t, engine, cmdtest.HelloAttributes())

	_, _, err := cmdtest.Execute(NewCommand(), path, "-X", "MODE=release")
	require.NoError(t, err)

	assert.Contains(t, engine.LastRequest().Payload, `"context":{"MODE":"release"}`)
	assert.Equal(t, 1, engine.Inits())
	assert.Equal(t, 1, engine.Finalizes())
}

func TestLoad_InvalidScenario(t *testing.T) {
	engine := cmdtest.UseEngine(t)
	_, path := cmdtest.WriteProject(t, engine, cmdtest.HelloAttributes())

	_, _, err := cmdtest.Execute(NewCommand(), path, "-X", "MODE")

	require.EqualError(t, err, `invalid scenario variable "MODE" (expected NAME=VALUE)`)
	assert.Equal(t, 1, engine.Finalizes())
}

func TestLoad_ProjectError(t *testing.T) {
	engine := cmdtest.UseEngine(t)
	dir, path := cmdtest.WriteProject(t, engine, nil)
	engine.AddProject(path, gpr2ctest.Project{Name: "ada_hello", LoadError: "missing end"})

	_, _, err := cmdtest.Execute(NewCommand(), path)

	require.Error(t, err)
	assert.Equal(t, gpr.CallError, gpr.KindOf(err))

	var gerr *gpr.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "GPR2.Project_Error", gerr.Name)
	assert.Equal(t, "$PROJECT/ada_hello.gpr: missing end", cmdtest.Normalize(gerr.Message, dir))
}

func TestLoad_UnknownFormat(t *testing.T) {
	cmdtest.UseEngine(t)

	_, _, err := cmdtest.Execute(NewCommand(), "ada_hello.gpr", "-f", "yaml")

	require.EqualError(t, err, "unknown format: yaml (valid options: text, json)")
}
