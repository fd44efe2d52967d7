package gpr2c

import (
	"bytes"
	"fmt"
	"reflect"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/LegacyCodeHQ/gpr2go/internal/calllog"
)

type lifecycle int

const (
	lifecycleLive lifecycle = iota + 1
	lifecycleFinalized
)

// Backends are process-wide resources, so the lifecycle of each one is
// tracked here rather than on the Runtime handle alone.
var (
	lifecyclesMu sync.Mutex
	lifecycles   = map[Backend]lifecycle{}
)

// Runtime is the guarded handle to an initialized backend. It is obtained
// once per backend per process through Initialize, and every request is
// checked against it so that use after Finalize is an error instead of
// undefined behavior.
//
// A Runtime does not serialize requests. The engine state behind it is
// shared by all callers, and concurrent use needs external locking.
type Runtime struct {
	backend Backend
}

// Initialize calls the backend's init entry point. It fails with
// ErrAlreadyInitialized if the backend is live, and with ErrFinalized if it
// has been finalized already: the engine cannot be brought back up. A nil
// or non-comparable backend fails with ErrInvalidBackend.
func Initialize(b Backend) (*Runtime, error) {
	if b == nil || !reflect.TypeOf(b).Comparable() {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidBackend, b)
	}

	lifecyclesMu.Lock()
	defer lifecyclesMu.Unlock()

	switch lifecycles[b] {
	case lifecycleLive:
		return nil, ErrAlreadyInitialized
	case lifecycleFinalized:
		return nil, ErrFinalized
	}

	if err := b.Init(); err != nil {
		return nil, err
	}
	lifecycles[b] = lifecycleLive
	calllog.Lifecycle("initialize")

	return &Runtime{backend: b}, nil
}

// Finalize calls the backend's finalize entry point. Every Tree obtained
// through this Runtime becomes invalid.
func (r *Runtime) Finalize() error {
	lifecyclesMu.Lock()
	defer lifecyclesMu.Unlock()

	if err := r.checkLocked(); err != nil {
		return err
	}
	r.backend.Finalize()
	lifecycles[r.backend] = lifecycleFinalized
	calllog.Lifecycle("finalize")
	return nil
}

// Live reports whether requests can still be made.
func (r *Runtime) Live() bool {
	return r.check() == nil
}

func (r *Runtime) checkLocked() error {
	if r == nil || r.backend == nil {
		return ErrNotInitialized
	}
	switch lifecycles[r.backend] {
	case lifecycleLive:
		return nil
	case lifecycleFinalized:
		return ErrFinalized
	default:
		return ErrNotInitialized
	}
}

// Call sends request to op and returns the dispatch status with a Go-owned
// copy of the answer. The native answer is released before Call returns.
//
// A request that is not valid UTF-8 or contains NUL, and an answer that is
// not valid UTF-8, fail with ErrInvalidPayload.
func (r *Runtime) Call(op Op, request []byte) (Status, []byte, error) {
	if err := r.check(); err != nil {
		return 0, nil, err
	}
	if err := validatePayload(request); err != nil {
		return 0, nil, fmt.Errorf("%w: request: %v", ErrInvalidPayload, err)
	}

	start := time.Now()
	status, answer, err := r.backend.Request(op, request)
	if err != nil {
		calllog.Failure(op.String(), err)
		return status, nil, err
	}
	defer func() {
		_ = answer.Release()
	}()

	data, err := answer.Bytes()
	if err != nil {
		return status, nil, err
	}
	out := bytes.Clone(data)
	calllog.Dispatch(op.String(), int(status), time.Since(start))

	if !utf8.Valid(out) {
		return status, nil, fmt.Errorf("%w: answer is not valid UTF-8", ErrInvalidPayload)
	}
	return status, out, nil
}

func (r *Runtime) check() error {
	lifecyclesMu.Lock()
	defer lifecyclesMu.Unlock()
	return r.checkLocked()
}

func validatePayload(p []byte) error {
	if !utf8.Valid(p) {
		return fmt.Errorf("not valid UTF-8")
	}
	if i := bytes.IndexByte(p, 0); i >= 0 {
		return fmt.Errorf("NUL byte at offset %d", i)
	}
	return nil
}
