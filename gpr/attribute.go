package gpr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedSchema is wrapped by the SerializationError returned when an
// attribute value is neither a string nor a list of strings. Older engines
// encoded values differently; there is no negotiation, so any other shape
// is treated as an incompatible library.
var ErrUnsupportedSchema = errors.New("unsupported attribute value schema")

// ValueKind is the shape of an attribute value.
type ValueKind int

const (
	Single ValueKind = iota
	List
)

func (k ValueKind) String() string {
	if k == List {
		return "List"
	}
	return "Single"
}

// AttributeValue holds either a single string or an ordered list of strings.
type AttributeValue struct {
	kind   ValueKind
	single string
	list   []string
}

// SingleValue returns a Single value.
func SingleValue(s string) AttributeValue {
	return AttributeValue{kind: Single, single: s}
}

// ListValue returns a List value.
func ListValue(l []string) AttributeValue {
	return AttributeValue{kind: List, list: l}
}

func (v AttributeValue) Kind() ValueKind {
	return v.kind
}

// Single returns the value and true if v is single-valued.
func (v AttributeValue) Single() (string, bool) {
	if v.kind != Single {
		return "", false
	}
	return v.single, true
}

// List returns the values and true if v is list-valued.
func (v AttributeValue) List() ([]string, bool) {
	if v.kind != List {
		return nil, false
	}
	return v.list, true
}

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	if v.kind == List {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.single)
}

func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrUnsupportedSchema
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = SingleValue(s)
		return nil
	case '[':
		var items []*string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedSchema, err)
		}
		l := make([]string, 0, len(items))
		for i, item := range items {
			if item == nil {
				return fmt.Errorf("%w: null list element at index %d", ErrUnsupportedSchema, i)
			}
			l = append(l, *item)
		}
		*v = ListValue(l)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedSchema, data)
	}
}

// AttributeQuery selects an attribute of a view. Pkg and Index are optional.
type AttributeQuery struct {
	Name  string
	Pkg   string
	Index string
	// View defaults to the tree's root view.
	View string
}

// Attribute is a value fetched from a view. TreeID, ViewID and Name echo
// the request that produced it.
type Attribute struct {
	TreeID    string         `json:"tree_id"`
	ViewID    string         `json:"view_id"`
	Name      string         `json:"name"`
	Pkg       string         `json:"pkg,omitempty"`
	Index     string         `json:"index,omitempty"`
	Value     AttributeValue `json:"value"`
	IsDefault bool           `json:"is_default"`
}
