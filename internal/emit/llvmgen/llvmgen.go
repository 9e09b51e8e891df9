// Package llvmgen lowers optimized IR to LLVM IR using
// github.com/llir/llvm's builder API, the one backend grounded
// entirely on a dependency the teacher's own go.mod declares but never
// imports. The tape is a single global byte array; the pointer lives
// in a stack slot reloaded around every reference, favoring a direct
// one-pass translation over SSA register promotion.
package llvmgen

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	tapeir "tapec/internal/ir"
)

type Backend struct{}

func (Backend) Name() string { return "llvm" }

func (Backend) Emit(w io.Writer, prog []tapeir.Node, memSize int) error {
	m := ir.NewModule()

	tapeType := types.NewArray(uint64(memSize), types.I8)
	tape := m.NewGlobalDef("tape", constant.NewZeroInitializer(tapeType))

	putchar := m.NewFunc("putchar", types.I32, ir.NewParam("c", types.I32))
	getchar := m.NewFunc("getchar", types.I32)

	main := m.NewFunc("main", types.I32)
	entry := main.NewBlock("entry")

	ptr := entry.NewAlloca(types.I32)
	entry.NewStore(constant.NewInt(types.I32, 0), ptr)

	g := &gen{m: m, fn: main, tape: tape, tapeType: tapeType, putchar: putchar, getchar: getchar, ptr: ptr}
	g.block = entry
	g.body(prog)
	g.block.NewRet(constant.NewInt(types.I32, 0))

	_, err := io.WriteString(w, m.String())
	return err
}

type gen struct {
	m        *ir.Module
	fn       *ir.Func
	tape     *ir.Global
	tapeType *types.ArrayType
	putchar  *ir.Func
	getchar  *ir.Func
	ptr      *ir.InstAlloca
	block    *ir.Block
	counter  int
}

func (g *gen) label(prefix string) string {
	g.counter++
	return fmt.Sprintf("%s.%d", prefix, g.counter)
}

// cellPtr computes a pointer to tape[idx+off] where idx is the
// current value of the pointer slot, as an i32 index into the global
// array.
func (g *gen) cellPtr(off tapeir.Offset) value.Value {
	idx := g.block.NewLoad(types.I32, g.ptr)
	var index value.Value = idx
	if off != 0 {
		index = g.block.NewAdd(idx, constant.NewInt(types.I32, int64(off)))
	}
	return g.block.NewGetElementPtr(g.tapeType, g.tape,
		constant.NewInt(types.I32, 0), index)
}

func (g *gen) body(body []tapeir.Node) {
	for _, n := range body {
		switch n.Op {
		case tapeir.OpPtrChange:
			idx := g.block.NewLoad(types.I32, g.ptr)
			moved := g.block.NewAdd(idx, constant.NewInt(types.I32, int64(n.Offset)))
			g.block.NewStore(moved, g.ptr)

		case tapeir.OpAdd:
			p := g.cellPtr(n.Offset)
			cur := g.block.NewLoad(types.I8, p)
			sum := g.block.NewAdd(cur, constant.NewInt(types.I8, int64(n.Value)))
			g.block.NewStore(sum, p)

		case tapeir.OpMovImm:
			p := g.cellPtr(n.Offset)
			g.block.NewStore(constant.NewInt(types.I8, int64(n.Value)), p)

		case tapeir.OpAddMul:
			src := g.block.NewLoad(types.I8, g.cellPtr(0))
			srcExt := g.block.NewSExt(src, types.I32)
			k := constant.NewInt(types.I32, int64(n.Value))
			product := g.block.NewMul(srcExt, k)
			productTrunc := g.block.NewTrunc(product, types.I8)
			dst := g.cellPtr(n.Offset)
			cur := g.block.NewLoad(types.I8, dst)
			sum := g.block.NewAdd(cur, productTrunc)
			g.block.NewStore(sum, dst)

		case tapeir.OpPutch:
			v := g.block.NewLoad(types.I8, g.cellPtr(n.Offset))
			vExt := g.block.NewSExt(v, types.I32)
			g.block.NewCall(g.putchar, vExt)

		case tapeir.OpGetch:
			c := g.block.NewCall(g.getchar)
			cTrunc := g.block.NewTrunc(c, types.I8)
			g.block.NewStore(cTrunc, g.cellPtr(n.Offset))

		case tapeir.OpLoop:
			g.loop(n.Body, nil)

		case tapeir.OpSimpleLoop:
			g.loop(n.Body, &n.Value)
		}
	}
}

// loop emits the standard while-nonzero-at-cell-0 control flow shared
// by Loop and SimpleLoop; delta, when non-nil, is applied to cell 0
// once per iteration after the body runs.
func (g *gen) loop(body []tapeir.Node, delta *tapeir.Value) {
	cond := g.fn.NewBlock(g.label("loop.cond"))
	loopBody := g.fn.NewBlock(g.label("loop.body"))
	after := g.fn.NewBlock(g.label("loop.after"))

	g.block.NewBr(cond)

	g.block = cond
	cell := g.block.NewLoad(types.I8, g.cellPtr(0))
	isZero := g.block.NewICmp(enum.IPredEQ, cell, constant.NewInt(types.I8, 0))
	g.block.NewCondBr(isZero, after, loopBody)

	g.block = loopBody
	g.body(body)
	if delta != nil {
		p := g.cellPtr(0)
		cur := g.block.NewLoad(types.I8, p)
		sum := g.block.NewAdd(cur, constant.NewInt(types.I8, int64(*delta)))
		g.block.NewStore(sum, p)
	}
	g.block.NewBr(cond)

	g.block = after
}
