//go:build gpr2c && cgo

package gpr2c

/*
#cgo LDFLAGS: -lgpr2c

#include <stdlib.h>
#include <string.h>

extern void gpr2cinit(void);
extern void gpr2cfinal(void);
extern int gpr2_request(int fun, const char *request, char **answer);
extern void gpr2_free_answer(char *answer);
*/
import "C"

import "unsafe"

type nativeBackend struct{}

var native = &nativeBackend{}

// Native returns the backend linked against libgpr2c. Not concurrency-safe:
// the engine keeps its trees and views in process-global state.
func Native() Backend {
	return native
}

func (*nativeBackend) Init() error {
	C.gpr2cinit()
	return nil
}

func (*nativeBackend) Finalize() {
	C.gpr2cfinal()
}

func (*nativeBackend) Request(op Op, request []byte) (Status, *Answer, error) {
	creq := C.CString(string(request))
	defer C.free(unsafe.Pointer(creq))

	var answer *C.char
	rc := C.gpr2_request(C.int(op), creq, &answer)
	if answer == nil {
		return Status(rc), nil, ErrNoAnswer
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(answer)), int(C.strlen(answer)))
	return Status(rc), NewAnswer(data, func() {
		C.gpr2_free_answer(answer)
	}), nil
}
