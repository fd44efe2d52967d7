package gpr2ctest

import "encoding/json"

type envelope struct {
	Result    any    `json:"result"`
	Status    int    `json:"status"`
	ErrorMsg  string `json:"error_msg"`
	ErrorName string `json:"error_name"`
}

// TreeResult is the wire shape of a loaded tree.
type TreeResult struct {
	ID              string            `json:"id"`
	RootView        string            `json:"root_view"`
	ConfigView      *string           `json:"config_view"`
	RuntimeView     *string           `json:"runtime_view"`
	Target          string            `json:"target"`
	CanonicalTarget string            `json:"canonical_target"`
	SearchPaths     []string          `json:"search_paths"`
	SrcSubdirs      *string           `json:"src_subdirs"`
	Subdirs         *string           `json:"subdirs"`
	BuildPath       *string           `json:"build_path"`
	Views           []string          `json:"views"`
	Context         map[string]string `json:"context"`
}

// OKAnswer encodes a successful envelope around result.
func OKAnswer(result any) string {
	return mustJSON(envelope{Result: result})
}

// ErrorAnswer encodes a failed envelope with an empty result.
func ErrorAnswer(status int, name, message string) string {
	return mustJSON(envelope{
		Result:    struct{}{},
		Status:    status,
		ErrorName: name,
		ErrorMsg:  message,
	})
}

// AttributeAnswer encodes a successful attribute envelope. value must be a
// string or a []string to match the engine's schema.
func AttributeAnswer(value any, isDefault bool) string {
	return OKAnswer(map[string]any{
		"attribute": map[string]any{
			"value":      value,
			"is_default": isDefault,
		},
	})
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
