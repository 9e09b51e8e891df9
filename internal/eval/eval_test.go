package eval_test

import (
	"testing"

	"tapec/internal/eval"
	"tapec/internal/evaltest"
	"tapec/internal/ir"
)

func TestEvalBasicArithmeticAndIO(t *testing.T) {
	prog := []ir.Node{
		ir.Add(0, 65),
		ir.Putch(0),
	}
	io := evaltest.New(t, "", "A")
	eval.Eval(prog, io)
	io.Done()
}

func TestEvalGetchWritesCell(t *testing.T) {
	prog := []ir.Node{ir.Getch(0), ir.Putch(0)}
	io := evaltest.New(t, "z", "z")
	eval.Eval(prog, io)
	io.Done()
}

func TestEvalLoopRunsWhileNonzero(t *testing.T) {
	// cell0 = 3; loop: putch cell0, decrement; prints 3,2,1.
	prog := []ir.Node{
		ir.Add(0, 3),
		ir.Loop([]ir.Node{ir.Putch(0), ir.Add(0, -1)}),
	}
	io := evaltest.New(t, "", "\x03\x02\x01")
	eval.Eval(prog, io)
	io.Done()
}

func TestEvalSimpleLoopAppliesDeltaPerIteration(t *testing.T) {
	// cell0=3, cell1=0. SimpleLoop(-1, [PtrChange(1), Add(0,5), PtrChange(-1)])
	// transfers 5*3=15 into cell1, leaves cell0 at 0.
	prog := []ir.Node{
		ir.Add(0, 3),
		ir.SimpleLoop(-1, []ir.Node{
			ir.PtrChange(1), ir.Add(0, 5), ir.PtrChange(-1),
		}),
		ir.PtrChange(1),
		ir.Putch(0),
	}
	io := evaltest.New(t, "", "\x0F")
	eval.Eval(prog, io)
	io.Done()
}

func TestEvalAddMulMatchesUnrolledLoop(t *testing.T) {
	prog := []ir.Node{
		ir.Add(0, 4),
		ir.AddMul(1, 5),
		ir.MovImm(0, 0),
		ir.PtrChange(1),
		ir.Putch(0),
	}
	io := evaltest.New(t, "", "\x14")
	eval.Eval(prog, io)
	io.Done()
}

func TestEvalMovImmSetsExactValue(t *testing.T) {
	prog := []ir.Node{ir.Add(0, 99), ir.MovImm(0, 5), ir.Putch(0)}
	io := evaltest.New(t, "", "\x05")
	eval.Eval(prog, io)
	io.Done()
}

func TestEvalWrapsAt256(t *testing.T) {
	prog := make([]ir.Node, 0, 257)
	for i := 0; i < 256; i++ {
		prog = append(prog, ir.Add(0, 1))
	}
	prog = append(prog, ir.Putch(0))
	io := evaltest.New(t, "", "\x00")
	eval.Eval(prog, io)
	io.Done()
}
