package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Library describes the artifact of a library project.
type Library struct {
	Name string `json:"name" yaml:"name"`
	Dir  string `json:"dir" yaml:"dir"`
	Kind string `json:"kind" yaml:"kind"`
}

// Summary is what `show` reports about a project.
type Summary struct {
	Name       string   `json:"name" yaml:"name"`
	Path       string   `json:"path" yaml:"path"`
	SourceDirs []string `json:"source_dirs" yaml:"source_dirs"`
	Library    *Library `json:"library,omitempty" yaml:"library,omitempty"`
}

// Formatter renders a Summary.
type Formatter interface {
	Format(s Summary) (string, error)
}

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (Formatter, error) {
	f, ok := ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}

	switch f {
	case OutputFormatJSON:
		return jsonFormatter{}, nil
	case OutputFormatYAML:
		return yamlFormatter{}, nil
	default:
		return textFormatter{}, nil
	}
}

type textFormatter struct{}

func (textFormatter) Format(s Summary) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Project:      %s\n", s.Name)
	fmt.Fprintf(&b, "File:         %s\n", s.Path)
	fmt.Fprintf(&b, "Source dirs:  %s\n", strings.Join(s.SourceDirs, ", "))
	if s.Library != nil {
		fmt.Fprintf(&b, "Library:      %s (%s)\n", s.Library.Name, s.Library.Kind)
		fmt.Fprintf(&b, "Library dir:  %s\n", s.Library.Dir)
	}
	return b.String(), nil
}

type jsonFormatter struct{}

func (jsonFormatter) Format(s Summary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

type yamlFormatter struct{}

func (yamlFormatter) Format(s Summary) (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
