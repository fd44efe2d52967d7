package gpr

import (
	"errors"
	"fmt"
)

// Kind classifies every error returned by this package.
type Kind int

const (
	KindNone Kind = iota
	InvalidRequest
	CallError
	IOError
	UnknownError
	SerializationError
	InvalidAttribute
	InvalidAttributeValue
)

func (k Kind) String() string {
	switch k {
	case InvalidRequest:
		return "InvalidRequest"
	case CallError:
		return "CallError"
	case IOError:
		return "IOError"
	case UnknownError:
		return "UnknownError"
	case SerializationError:
		return "SerializationError"
	case InvalidAttribute:
		return "InvalidAttribute"
	case InvalidAttributeValue:
		return "InvalidAttributeValue"
	default:
		return "None"
	}
}

// NameInvalidResponse names the protocol error raised when the engine
// reports success but the result does not have the expected shape.
const NameInvalidResponse = "InvalidResponse"

// NameUnknownError is the sentinel name used for status codes outside the
// known set.
const NameUnknownError = "UnknownError"

// Error is an engine-reported, protocol, I/O or serialization failure. For
// engine-reported errors Name and Message are the engine's own, verbatim.
type Error struct {
	Kind    Kind
	Name    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("gpr (%s) %s: %s", e.Kind, e.Name, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("gpr (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("gpr (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AttributeError reports an attribute whose value cannot be used by a typed
// accessor. For InvalidAttribute, Value is the raw value; for
// InvalidAttributeValue it is the shape the engine returned.
type AttributeError struct {
	Kind  Kind
	File  string
	Name  string
	Value string
}

func (e *AttributeError) Error() string {
	if e.Kind == InvalidAttributeValue {
		return fmt.Sprintf("invalid attribute value %s for attribute %s in %s", e.Value, e.Name, e.File)
	}
	return fmt.Sprintf("invalid attribute %s from %s: %s", e.Name, e.File, e.Value)
}

// KindOf returns the Kind of the first *Error or *AttributeError in err's
// chain, or KindNone.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	var aerr *AttributeError
	if errors.As(err, &aerr) {
		return aerr.Kind
	}
	return KindNone
}

// errorFromStatus maps a non-zero dispatch status to an error. It returns nil
// for status zero.
func errorFromStatus(status int, name, message string) error {
	switch status {
	case 0:
		return nil
	case 1:
		return &Error{Kind: InvalidRequest, Name: name, Message: message}
	case 2:
		return &Error{Kind: CallError, Name: name, Message: message}
	case 3:
		return &Error{Kind: UnknownError, Name: name, Message: message}
	default:
		return &Error{Kind: UnknownError, Name: NameUnknownError, Message: "unknown code"}
	}
}

func invalidResponse(raw []byte) error {
	return &Error{Kind: UnknownError, Name: NameInvalidResponse, Message: string(raw)}
}

func serializationError(err error) error {
	return &Error{Kind: SerializationError, Err: err}
}

func ioError(err error) error {
	return &Error{Kind: IOError, Err: err}
}

func invalidAttribute(file, name, value string) error {
	return &AttributeError{Kind: InvalidAttribute, File: file, Name: name, Value: value}
}

func invalidAttributeValue(file, name string, got ValueKind) error {
	return &AttributeError{Kind: InvalidAttributeValue, File: file, Name: name, Value: got.String()}
}
