package gpr2c

// Answer is a response buffer allocated on the native side of the boundary.
// Ownership passes to the caller on return from a request, and the buffer
// must be released exactly once through Release.
type Answer struct {
	data     []byte
	release  func()
	released bool
}

// NewAnswer wraps data with the function that frees it. release may be nil
// when the buffer is Go-managed.
func NewAnswer(data []byte, release func()) *Answer {
	return &Answer{data: data, release: release}
}

// Bytes returns the answer contents. The slice is only valid until Release.
func (a *Answer) Bytes() ([]byte, error) {
	if a.released {
		return nil, ErrAnswerReleased
	}
	return a.data, nil
}

// Release frees the answer. A second call returns ErrAnswerReleased and
// does not touch the native allocator again.
func (a *Answer) Release() error {
	if a.released {
		return ErrAnswerReleased
	}
	a.released = true
	a.data = nil
	if a.release != nil {
		a.release()
	}
	return nil
}

// Released reports whether Release has been called.
func (a *Answer) Released() bool {
	return a.released
}
