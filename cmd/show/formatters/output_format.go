package formatters

import "strings"

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

var supportedFormats = []OutputFormat{OutputFormatText, OutputFormatJSON, OutputFormatYAML}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat parses a format name.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	for _, f := range supportedFormats {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// SupportedFormats returns the format names, comma-separated.
func SupportedFormats() string {
	names := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
