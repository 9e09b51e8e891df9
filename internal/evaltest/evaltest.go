// Package evaltest provides a fixed input/output fixture for driving
// eval.Eval in tests. It is the Go analogue of
// original_source/src/test.rs's TestIO: every byte produced or
// consumed is checked against an expectation in order, and Done()
// checks nothing was left over.
package evaltest

import (
	"testing"

	"tapec/internal/ir"
)

type IO struct {
	t      *testing.T
	input  []ir.Value
	inIdx  int
	output []ir.Value
	outIdx int
}

func New(t *testing.T, input, output string) *IO {
	return &IO{t: t, input: toValues(input), output: toValues(output)}
}

func toValues(s string) []ir.Value {
	out := make([]ir.Value, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = ir.Value(s[i])
	}
	return out
}

func (io *IO) Putchar(v ir.Value) {
	io.t.Helper()
	if io.outIdx >= len(io.output) {
		io.t.Fatalf("produced too much output: got extra byte %d", v)
	}
	if v != io.output[io.outIdx] {
		io.t.Fatalf("output[%d]: got %d, want %d", io.outIdx, v, io.output[io.outIdx])
	}
	io.outIdx++
}

func (io *IO) Getchar() ir.Value {
	io.t.Helper()
	if io.inIdx >= len(io.input) {
		io.t.Fatalf("consumed too much input")
	}
	v := io.input[io.inIdx]
	io.inIdx++
	return v
}

func (io *IO) Done() {
	io.t.Helper()
	if io.inIdx != len(io.input) {
		io.t.Errorf("did not consume full input: read %d/%d bytes", io.inIdx, len(io.input))
	}
	if io.outIdx != len(io.output) {
		io.t.Errorf("did not produce full output: wrote %d/%d bytes", io.outIdx, len(io.output))
	}
}
