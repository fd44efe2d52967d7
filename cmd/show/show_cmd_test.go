package show

import (
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/gpr2go/cmd/internal/cmdtest"
	"github.com/LegacyCodeHQ/gpr2go/cmd/session"
	"github.com/LegacyCodeHQ/gpr2go/gpr"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
	"github.com/LegacyCodeHQ/gpr2go/gpr2c/gpr2ctest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow_Formats(t *testing.T) {
	for _, format := range []string{"text", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			engine := cmdtest.UseEngine(t)
			dir, path := cmdtest.WriteProject(t, engine, cmdtest.HelloAttributes())

			stdout, _, err := cmdtest.Execute(NewCommand(), path, "-f", format)
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, "show_"+format, []byte(cmdtest.Normalize(stdout, dir)))
		})
	}
}

func TestShow_NonLibraryProject(t *testing.T) {
	engine := cmdtest.UseEngine(t)
	attrs := map[string]any{"source_dirs": []string{"src"}}
	dir, path := cmdtest.WriteProject(t, engine, attrs)

	stdout, _, err := cmdtest.Execute(NewCommand(), path)
	require.NoError(t, err)

	assert.Equal(t, "Project:      ada_hello\nFile:         $PROJECT/ada_hello.gpr\nSource dirs:  src\n", cmdtest.Normalize(stdout, dir))
}

func TestShow_InvalidLibraryKind(t *testing.T) {
	engine := cmdtest.UseEngine(t)
	attrs := cmdtest.HelloAttributes()
	attrs["library_kind"] = "shared"
	_, path := cmdtest.WriteProject(t, engine, attrs)

	_, _, err := cmdtest.Execute(NewCommand(), path)

	require.Error(t, err)
	assert.Equal(t, gpr.InvalidAttribute, gpr.KindOf(err))
}

func TestShow_UnknownFormat(t *testing.T) {
	engine := cmdtest.UseEngine(t)
	_, path := cmdtest.WriteProject(t, engine, cmdtest.HelloAttributes())

	_, _, err := cmdtest.Execute(NewCommand(), path, "-f", "dot")

	require.EqualError(t, err, "unknown format: dot (valid options: text, json, yaml)")
	assert.Zero(t, engine.Inits())
}

func TestShow_MissingProject(t *testing.T) {
	cmdtest.UseEngine(t)

	_, _, err := cmdtest.Execute(NewCommand(), "does-not-exist.gpr")

	require.Error(t, err)
	assert.Equal(t, gpr.IOError, gpr.KindOf(err))
	assert.Contains(t, err.Error(), "failed to load does-not-exist.gpr")
}

func TestShow_RequiresProjectArgument(t *testing.T) {
	cmdtest.UseEngine(t)

	_, _, err := cmdtest.Execute(NewCommand())

	require.EqualError(t, err, "accepts 1 arg(s), received 0")
}

// droppingEngine loses the answer to library_name requests, the way a broken
// native library would.
type droppingEngine struct {
	*gpr2ctest.Engine
}

func (e *droppingEngine) Request(op gpr2c.Op, request []byte) (gpr2c.Status, *gpr2c.Answer, error) {
	if op == gpr2c.OpViewAttribute && strings.Contains(string(request), `"name":"library_name"`) {
		return 0, nil, gpr2c.ErrNoAnswer
	}
	return e.Engine.Request(op, request)
}

func TestSummarize_CallFailureIsNotTreatedAsNonLibrary(t *testing.T) {
	engine := &droppingEngine{Engine: gpr2ctest.NewEngine()}
	_, path := cmdtest.WriteProject(t, engine.Engine, cmdtest.HelloAttributes())
	rt, err := gpr2c.Initialize(engine)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Finalize() })

	prj, err := gpr.Load(rt, path, gpr.LoadOptions{})
	require.NoError(t, err)

	summary, err := Summarize(prj)

	require.ErrorIs(t, err, gpr2c.ErrNoAnswer)
	assert.Nil(t, summary.Library)
}

func TestShow_CallFailureIsReported(t *testing.T) {
	engine := &droppingEngine{Engine: gpr2ctest.NewEngine()}
	_, path := cmdtest.WriteProject(t, engine.Engine, cmdtest.HelloAttributes())
	prev := session.NewBackend
	session.NewBackend = func() gpr2c.Backend { return engine }
	t.Cleanup(func() { session.NewBackend = prev })

	stdout, _, err := cmdtest.Execute(NewCommand(), path)

	require.ErrorIs(t, err, gpr2c.ErrNoAnswer)
	assert.Empty(t, stdout)
}
