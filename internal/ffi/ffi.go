//go:build cgo

// Package ffi exposes GenerateFeasibleDesign behind a cgo boundary so
// a non-Go caller can link against it directly, in the idiom of the
// pack's own cgo bridges: a `/* ... */` preamble of C declarations
// immediately above `import "C"`, with `//export`-annotated Go
// functions taking and returning C-compatible scalars and pointers,
// and all slice lifetime kept on the Go side.
package ffi

/*
#include <stdint.h>
#include <stddef.h>
*/
import "C"

import (
	"bytes"
	"unsafe"

	"github.com/flga/feasible/internal/brush"
	"github.com/flga/feasible/internal/generator"
	"github.com/flga/feasible/internal/grid"
	"github.com/flga/feasible/internal/latentio"
)

// feasible_generate fills three caller-allocated uint8 buffers, each
// rows*cols long, with 0/1 values: void, void-touch-existing and
// solid-touch-existing. Returns 0 on success, -1 on error - error text
// does not cross the boundary, see the Go test suite or cmd/feasible
// for diagnostics.
//
//export feasible_generate
func feasible_generate(
	latentRows, latentCols C.int32_t,
	latentBytes *C.uint8_t, latentLen C.size_t,
	brushRows, brushCols C.int32_t,
	brushBytes *C.uint8_t, brushLen C.size_t,
	verbose C.int32_t,
	outVoid, outVoidTouchExisting, outSolidTouchExisting *C.uint8_t,
) C.int32_t {
	latentShape := grid.Shape{Rows: int(latentRows), Cols: int(latentCols)}
	brushShape := grid.Shape{Rows: int(brushRows), Cols: int(brushCols)}

	latentBuf := C.GoBytes(unsafe.Pointer(latentBytes), C.int(latentLen))
	brushBuf := C.GoBytes(unsafe.Pointer(brushBytes), C.int(brushLen))

	latentT, err := latentio.Load(bytes.NewReader(latentBuf), latentShape)
	if err != nil {
		return -1
	}
	mask, err := latentio.Load(bytes.NewReader(brushBuf), brushShape)
	if err != nil {
		return -1
	}
	b := brush.FromFloatMask(brushShape, mask)

	gen, err := generator.New(latentShape, b, latentT)
	if err != nil {
		return -1
	}
	gen.Verbose = verbose != 0

	d, _, err := gen.Run()
	if err != nil {
		return -1
	}
	if err := d.Validate(); err != nil {
		return -1
	}

	writeBoolPlane(outVoid, d.Void())
	writeBoolPlane(outVoidTouchExisting, d.VoidTouchExisting())
	writeBoolPlane(outSolidTouchExisting, d.SolidTouchExisting())
	return 0
}

func writeBoolPlane(dst *C.uint8_t, plane []bool) {
	out := unsafe.Slice((*C.uint8_t)(unsafe.Pointer(dst)), len(plane))
	for i, v := range plane {
		if v {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
}
