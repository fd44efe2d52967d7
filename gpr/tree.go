package gpr

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
	"github.com/LegacyCodeHQ/gpr2go/internal/calllog"
)

// Tree is a project tree loaded by the engine. The identifiers are opaque
// tokens owned by the engine; a Tree is never unloaded individually and
// stops being usable once its Runtime is finalized.
type Tree struct {
	ID              string            `json:"id"`
	RootView        string            `json:"root_view"`
	ConfigView      string            `json:"config_view,omitempty"`
	RuntimeView     string            `json:"runtime_view,omitempty"`
	Target          string            `json:"target"`
	CanonicalTarget string            `json:"canonical_target"`
	SearchPaths     []string          `json:"search_paths"`
	SrcSubdirs      string            `json:"src_subdirs,omitempty"`
	Subdirs         string            `json:"subdirs,omitempty"`
	BuildPath       string            `json:"build_path,omitempty"`
	Views           []string          `json:"views"`
	Context         map[string]string `json:"context"`

	rt *gpr2c.Runtime
}

// LoadOptions configures LoadTree.
type LoadOptions struct {
	// Context holds scenario variables, as passed to gprbuild with -X.
	Context map[string]string
}

// LoadTree asks the engine to load the project file at filename.
func LoadTree(rt *gpr2c.Runtime, filename string, opts LoadOptions) (*Tree, error) {
	texts := []string{filename}
	for name, value := range opts.Context {
		texts = append(texts, name, value)
	}
	if err := checkText(gpr2c.OpTreeLoad, texts...); err != nil {
		return nil, err
	}
	req := loadRequest{Filename: filename, Context: opts.Context}

	res, raw, err := dispatch(rt, gpr2c.OpTreeLoad, req)
	if err != nil {
		return nil, err
	}
	if res.shape != shapeTree {
		return nil, invalidResponse(raw)
	}

	res.tree.rt = rt
	return res.tree, nil
}

// Attribute fetches an attribute from the query's view, or from the root
// view when none is given. The engine decides whether the name is valid.
func (t *Tree) Attribute(q AttributeQuery) (*Attribute, error) {
	view := q.View
	if view == "" {
		view = t.RootView
	}
	req := attributeRequest{
		TreeID: t.ID,
		ViewID: view,
		Name:   q.Name,
		Pkg:    q.Pkg,
		Index:  q.Index,
	}
	if err := checkText(gpr2c.OpViewAttribute, req.TreeID, req.ViewID, req.Name, req.Pkg, req.Index); err != nil {
		return nil, err
	}

	res, raw, err := dispatch(t.rt, gpr2c.OpViewAttribute, req)
	if err != nil {
		return nil, err
	}
	if res.shape != shapeAttribute {
		return nil, invalidResponse(raw)
	}

	attr := res.attribute
	attr.TreeID = req.TreeID
	attr.ViewID = req.ViewID
	attr.Name = req.Name
	attr.Pkg = req.Pkg
	attr.Index = req.Index
	return attr, nil
}

// checkText rejects request strings that are not valid UTF-8. The JSON
// encoder would replace the bad bytes with U+FFFD.
func checkText(op gpr2c.Op, texts ...string) error {
	for _, s := range texts {
		if !utf8.ValidString(s) {
			return serializationError(fmt.Errorf("%w: %s request field %q is not valid UTF-8", gpr2c.ErrInvalidPayload, op, s))
		}
	}
	return nil
}

// dispatch encodes req, sends it to op and decodes the answer. raw is the
// answer text, kept for InvalidResponse diagnostics.
func dispatch(rt *gpr2c.Runtime, op gpr2c.Op, req any) (result, []byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return result{}, nil, serializationError(fmt.Errorf("encoding %s request: %w", op, err))
	}

	status, raw, err := rt.Call(op, payload)
	if err != nil {
		if errors.Is(err, gpr2c.ErrInvalidPayload) {
			return result{}, nil, serializationError(err)
		}
		return result{}, nil, &Error{Kind: CallError, Err: err}
	}

	res, err := decodeAnswer(raw, int(status))
	if err != nil {
		var gerr *Error
		if errors.As(err, &gerr) && gerr.Name != "" {
			calllog.EngineError(op.String(), int(status), gerr.Name, gerr.Message)
		}
		return result{}, raw, err
	}
	return res, raw, nil
}
