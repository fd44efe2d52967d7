//go:build !gpr2c || !cgo

package gpr2c

type unavailableBackend struct{}

var native = &unavailableBackend{}

// Native returns a backend whose Init fails with ErrNativeUnavailable.
// Build with the gpr2c tag (and cgo enabled) to link libgpr2c.
func Native() Backend {
	return native
}

func (*unavailableBackend) Init() error {
	return ErrNativeUnavailable
}

func (*unavailableBackend) Finalize() {}

func (*unavailableBackend) Request(Op, []byte) (Status, *Answer, error) {
	return 0, nil, ErrNativeUnavailable
}
