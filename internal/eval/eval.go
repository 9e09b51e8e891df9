// Package eval is the reference interpreter: a conformance oracle run
// against both the unoptimized and optimized IR in tests (spec §8),
// and the engine behind `tapec run`. It is single-threaded and
// blocking, reading one input byte at a time in program order (spec
// §5, I2).
package eval

import "tapec/internal/ir"

// IO is the byte-level input/output contract the interpreter drives.
type IO interface {
	Putchar(v ir.Value)
	Getchar() ir.Value
}

// state holds the sparse tape and current pointer. Only cells that
// have been written are stored; unread cells default to zero.
type state struct {
	mem map[ir.Offset]ir.Value
	idx ir.Offset
}

func (s *state) read(off ir.Offset) ir.Value {
	return s.mem[s.idx+off]
}

func (s *state) write(off ir.Offset, v ir.Value) {
	s.mem[s.idx+off] = v
}

// Eval runs prog to completion against io.
func Eval(prog []ir.Node, io IO) {
	s := &state{mem: make(map[ir.Offset]ir.Value)}
	run(prog, s, io)
}

func run(prog []ir.Node, s *state, io IO) {
	for _, n := range prog {
		switch n.Op {
		case ir.OpPtrChange:
			s.idx += n.Offset
		case ir.OpAdd:
			s.write(n.Offset, s.read(n.Offset)+n.Value)
		case ir.OpPutch:
			io.Putchar(s.read(n.Offset))
		case ir.OpGetch:
			s.write(n.Offset, io.Getchar())
		case ir.OpLoop:
			for s.read(0) != 0 {
				run(n.Body, s, io)
			}
		case ir.OpSimpleLoop:
			for s.read(0) != 0 {
				run(n.Body, s, io)
				s.write(0, s.read(0)+n.Value)
			}
		case ir.OpAddMul:
			s.write(n.Offset, s.read(n.Offset)+s.read(0)*n.Value)
		case ir.OpMovImm:
			s.write(n.Offset, n.Value)
		}
	}
}
