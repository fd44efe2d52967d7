// Package gpr2c is the boundary to libgpr2c, the C shim over the GPR2
// project-file engine. It owns the process-wide init/finalize lifecycle and
// the JSON-over-C-string request channel; it knows nothing about the shape
// of the payloads it carries.
package gpr2c

import (
	"errors"
	"fmt"
)

var (
	ErrNativeUnavailable  = errors.New("gpr2c: native library not linked (build with -tags gpr2c)")
	ErrAlreadyInitialized = errors.New("gpr2c: library already initialized in this process")
	ErrNotInitialized     = errors.New("gpr2c: library not initialized")
	ErrFinalized          = errors.New("gpr2c: library already finalized")
	ErrAnswerReleased     = errors.New("gpr2c: answer already released")
	ErrNoAnswer           = errors.New("gpr2c: native call returned no answer")
	ErrInvalidPayload     = errors.New("gpr2c: invalid payload")
	ErrInvalidBackend     = errors.New("gpr2c: backend must be a non-nil comparable value")
)

// Op identifies an engine entry point behind the single dispatch function.
type Op int

const (
	OpTreeLoad      Op = 1
	OpViewAttribute Op = 8
)

func (o Op) String() string {
	switch o {
	case OpTreeLoad:
		return "TreeLoad"
	case OpViewAttribute:
		return "ViewAttribute"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Status is the integer returned by the dispatch function.
type Status int

const StatusOK Status = 0

// Backend is the set of C entry points a Runtime drives. The cgo
// implementation is returned by Native; tests substitute an in-process one.
//
// A Backend is tracked by identity across Initialize and Finalize, so it must
// be comparable. Implement it on a pointer type.
type Backend interface {
	Init() error
	Finalize()
	// Request dispatches op with a request that is valid UTF-8 and free of
	// NUL bytes. On success the returned Answer is owned by the caller.
	Request(op Op, request []byte) (Status, *Answer, error)
}
