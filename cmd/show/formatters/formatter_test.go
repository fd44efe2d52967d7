package formatters

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func testSummary() Summary {
	return Summary{
		Name:       "ada_hello",
		Path:       "/project/ada_hello.gpr",
		SourceDirs: []string{"/project/src", "/project/generated"},
		Library: &Library{
			Name: "ada_hello",
			Dir:  "/project/lib",
			Kind: "static",
		},
	}
}

func TestNewFormatter_Text(t *testing.T) {
	f, err := NewFormatter("text")
	require.NoError(t, err)

	if _, ok := f.(textFormatter); !ok {
		t.Fatalf("NewFormatter(text) returned %T, want formatters.textFormatter", f)
	}
}

func TestNewFormatter_YAML(t *testing.T) {
	f, err := NewFormatter("yaml")
	require.NoError(t, err)

	if _, ok := f.(yamlFormatter); !ok {
		t.Fatalf("NewFormatter(yaml) returned %T, want formatters.yamlFormatter", f)
	}
}

func TestNewFormatter_UnknownFormat(t *testing.T) {
	_, err := NewFormatter("dot")

	require.EqualError(t, err, "unknown format: dot (valid options: text, json, yaml)")
}

func TestFormatters_Golden(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml"} {
		t.Run(name, func(t *testing.T) {
			f, err := NewFormatter(name)
			require.NoError(t, err)

			output, err := f.Format(testSummary())
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, "summary_"+name, []byte(output))
		})
	}
}

func TestTextFormatter_NonLibraryProject(t *testing.T) {
	s := testSummary()
	s.Library = nil

	output, err := textFormatter{}.Format(s)
	require.NoError(t, err)

	require.Equal(t, "Project:      ada_hello\nFile:         /project/ada_hello.gpr\nSource dirs:  /project/src, /project/generated\n", output)
}
