package gpr

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type loadRequest struct {
	Filename string            `json:"filename"`
	Context  map[string]string `json:"context,omitempty"`
}

type attributeRequest struct {
	TreeID string `json:"tree_id"`
	ViewID string `json:"view_id"`
	Name   string `json:"name"`
	Pkg    string `json:"pkg,omitempty"`
	Index  string `json:"index,omitempty"`
}

type envelope struct {
	Result    json.RawMessage `json:"result"`
	Status    int             `json:"status"`
	ErrorMsg  string          `json:"error_msg"`
	ErrorName string          `json:"error_name"`
}

type resultShape int

const (
	shapeEmpty resultShape = iota
	shapeTree
	shapeAttribute
	shapeUnrecognized
)

func (s resultShape) String() string {
	switch s {
	case shapeEmpty:
		return "empty"
	case shapeTree:
		return "tree"
	case shapeAttribute:
		return "attribute"
	default:
		return "unrecognized"
	}
}

// result is the decoded "result" member of an answer. Exactly one of tree
// and attribute is set for the matching shapes.
type result struct {
	shape     resultShape
	tree      *Tree
	attribute *Attribute
}

type attributeResult struct {
	Value     AttributeValue `json:"value"`
	IsDefault bool           `json:"is_default"`
}

// decodeResult probes raw in a fixed order: tree, attribute, empty. Anything
// else is unrecognized. Probing by member presence keeps shapes that share
// no required members from ever matching each other.
func decodeResult(raw json.RawMessage) (result, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return result{shape: shapeEmpty}, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return result{shape: shapeUnrecognized}, nil
	}

	_, hasID := members["id"]
	_, hasRoot := members["root_view"]
	if hasID && hasRoot {
		var t Tree
		if err := json.Unmarshal(raw, &t); err != nil {
			return result{}, serializationError(fmt.Errorf("decoding tree: %w", err))
		}
		return result{shape: shapeTree, tree: &t}, nil
	}

	if attrRaw, ok := members["attribute"]; ok {
		var attrMembers map[string]json.RawMessage
		if err := json.Unmarshal(attrRaw, &attrMembers); err != nil {
			return result{}, serializationError(fmt.Errorf("decoding attribute: %w", err))
		}
		if _, ok := attrMembers["value"]; !ok {
			return result{}, serializationError(fmt.Errorf("decoding attribute: %w: missing value", ErrUnsupportedSchema))
		}
		var a attributeResult
		if err := json.Unmarshal(attrRaw, &a); err != nil {
			return result{}, serializationError(fmt.Errorf("decoding attribute: %w", err))
		}
		return result{shape: shapeAttribute, attribute: &Attribute{Value: a.Value, IsDefault: a.IsDefault}}, nil
	}

	if len(members) == 0 {
		return result{shape: shapeEmpty}, nil
	}
	return result{shape: shapeUnrecognized}, nil
}

// decodeAnswer decodes an answer envelope. dispatchStatus is the value
// returned by the dispatch function; it is used when the envelope itself
// claims success.
//
// Exactly one of result and error is meaningful: a non-zero status yields
// the mapped engine error, a zero status with an empty or unrecognized
// result yields an InvalidResponse error.
func decodeAnswer(raw []byte, dispatchStatus int) (result, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return result{}, serializationError(fmt.Errorf("decoding answer: %w", err))
	}

	status := env.Status
	if status == 0 {
		status = dispatchStatus
	}
	if err := errorFromStatus(status, env.ErrorName, env.ErrorMsg); err != nil {
		return result{}, err
	}

	res, err := decodeResult(env.Result)
	if err != nil {
		return result{}, err
	}
	if res.shape == shapeEmpty || res.shape == shapeUnrecognized {
		return result{}, invalidResponse(raw)
	}
	return res, nil
}
