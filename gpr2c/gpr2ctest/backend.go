// Package gpr2ctest provides in-process stand-ins for libgpr2c.
package gpr2ctest

import (
	"fmt"
	"sync"

	"github.com/LegacyCodeHQ/gpr2go/gpr2c"
)

// Handler answers one request. The returned answer is handed to the caller
// as if the native library had allocated it.
type Handler func(request []byte) (gpr2c.Status, string)

// Request is a recorded call.
type Request struct {
	Op      gpr2c.Op
	Payload string
}

// Backend is a scripted gpr2c.Backend. It counts allocations and releases so
// tests can check that every answer is freed exactly once.
type Backend struct {
	mu       sync.Mutex
	handlers map[gpr2c.Op]Handler
	requests []Request
	answers  []*gpr2c.Answer
	inits    int
	finals   int
	frees    int

	// InitErr, when set, is returned by Init.
	InitErr error
}

// NewBackend returns a Backend with no handlers. Unhandled ops answer with
// status 2 and a CallError envelope.
func NewBackend() *Backend {
	return &Backend{handlers: make(map[gpr2c.Op]Handler)}
}

// Handle registers h for op.
func (b *Backend) Handle(op gpr2c.Op, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[op] = h
}

// HandleRaw registers a handler that always returns status and answer.
func (b *Backend) HandleRaw(op gpr2c.Op, status gpr2c.Status, answer string) {
	b.Handle(op, func([]byte) (gpr2c.Status, string) {
		return status, answer
	})
}

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.InitErr != nil {
		return b.InitErr
	}
	b.inits++
	return nil
}

func (b *Backend) Finalize() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finals++
}

func (b *Backend) Request(op gpr2c.Op, request []byte) (gpr2c.Status, *gpr2c.Answer, error) {
	b.mu.Lock()
	h, ok := b.handlers[op]
	b.requests = append(b.requests, Request{Op: op, Payload: string(request)})
	b.mu.Unlock()

	var status gpr2c.Status
	var answer string
	if ok {
		status, answer = h(request)
	} else {
		status, answer = 2, ErrorAnswer(2, "GPR2C.Unsupported", fmt.Sprintf("no handler for %s", op))
	}

	a := gpr2c.NewAnswer([]byte(answer), func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.frees++
	})

	b.mu.Lock()
	b.answers = append(b.answers, a)
	b.mu.Unlock()

	return status, a, nil
}

// Requests returns the calls made so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the most recent call, or a zero Request.
func (b *Backend) LastRequest() Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return Request{}
	}
	return b.requests[len(b.requests)-1]
}

// Inits returns how many times Init succeeded.
func (b *Backend) Inits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inits
}

// Finalizes returns how many times Finalize ran.
func (b *Backend) Finalizes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finals
}

// Allocated returns how many answers were handed out.
func (b *Backend) Allocated() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.answers)
}

// Freed returns how many answers were released.
func (b *Backend) Freed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frees
}
