package optimize

import (
	"golang.org/x/exp/slices"

	"tapec/internal/ir"
)

// cellKind distinguishes the two lattice variants tracked per absolute
// cell location by CollapseConsts.
type cellKind uint8

const (
	cellConst cellKind = iota // the cell holds exactly Val
	cellAdd                   // the cell holds its entry value plus Val
)

type cellState struct {
	kind cellKind
	val  ir.Value
}

// CollapseConsts forward-propagates statically known cell values and
// pending deltas, folding Add/AddMul/MovImm when operands are known
// (spec §4.5). It does not recurse into Loop or SimpleLoop bodies:
// crossing either boundary flushes the whole map and marks the
// remainder of the body as no longer knowable.
func CollapseConsts(body []ir.Node) []ir.Node {
	state := make(map[ir.Offset]*cellState)
	return collapseConsts(body, state, 0)
}

// get returns the lattice value at g, or (Const(0), true) if absent —
// cells are Const(0) at program entry and implicitly Add(0) once a
// loop boundary has been crossed and the map cleared; either way an
// absent entry behaves as "no pending delta, base value unknown-or-zero"
// for the purposes of folding here, matching spec's "absent == Const(0)
// at entry / Add(0) after a loop" rule applied lazily per read.
func get(state map[ir.Offset]*cellState, g ir.Offset) cellState {
	if s, ok := state[g]; ok {
		return *s
	}
	return cellState{kind: cellConst, val: 0}
}

func set(state map[ir.Offset]*cellState, g ir.Offset, s cellState) {
	cp := s
	state[g] = &cp
}

// settle records a cell's state after it has just been flushed by a
// pure read (Putch, or AddMul's source). Flushing a read never changes
// the cell's value: a Const stays exactly that Const, and an Add's
// pending delta has now been materialized into emitted IR, so it
// resets to zero pending further accumulation — but the cell remains
// tracked, it is not forgotten.
func settle(state map[ir.Offset]*cellState, g ir.Offset, s cellState) {
	if s.kind == cellAdd {
		set(state, g, cellState{kind: cellAdd, val: 0})
		return
	}
	set(state, g, s)
}

// flushCell emits the concrete IR needed to make target's abstract
// state real, relative to the current pointer position g: Add(rel, d)
// for a nonzero pending delta, or MovImm(rel, v) for a known constant.
// A zero pending delta is never flushed (spec §9, second Open
// Question).
func flushCell(target ir.Offset, s cellState, g ir.Offset) []ir.Node {
	rel := target - g
	switch s.kind {
	case cellAdd:
		if s.val == 0 {
			return nil
		}
		return []ir.Node{ir.Add(rel, s.val)}
	default:
		return []ir.Node{ir.MovImm(rel, s.val)}
	}
}

// flushAll emits concrete IR for every tracked cell, relative to base,
// then clears the map. Iteration order doesn't affect correctness
// since every entry targets a distinct cell.
func flushAll(state map[ir.Offset]*cellState, g ir.Offset) []ir.Node {
	targets := make([]ir.Offset, 0, len(state))
	for target := range state {
		targets = append(targets, target)
	}
	slices.Sort(targets)

	var out []ir.Node
	for _, target := range targets {
		out = append(out, flushCell(target, *state[target], g)...)
		delete(state, target)
	}
	return out
}

func collapseConsts(body []ir.Node, state map[ir.Offset]*cellState, idx ir.Offset) []ir.Node {
	var out []ir.Node
	var off ir.Offset
	knowable := true

	for _, n := range body {
		if !knowable {
			out = append(out, n)
			continue
		}
		g := idx + off

		switch n.Op {
		case ir.OpPtrChange:
			out = append(out, n)
			off += n.Offset

		case ir.OpAdd:
			target := g + n.Offset
			cur := get(state, target)
			set(state, target, cellState{kind: cur.kind, val: cur.val + n.Value})
			// Add never emits directly; it only updates pending state.

		case ir.OpAddMul:
			dst := g + n.Offset
			src := get(state, g)
			dstState := get(state, dst)
			if src.kind == cellConst && dstState.kind == cellConst {
				set(state, dst, cellState{kind: cellConst, val: dstState.val + src.val*n.Value})
			} else {
				out = append(out, flushCell(g, src, g)...)
				out = append(out, flushCell(dst, dstState, g)...)
				settle(state, g, src)
				out = append(out, n)
				set(state, dst, cellState{kind: cellAdd, val: 0})
			}

		case ir.OpPutch:
			target := g + n.Offset
			cur := get(state, target)
			out = append(out, flushCell(target, cur, g)...)
			settle(state, target, cur)
			out = append(out, n)

		case ir.OpGetch:
			out = append(out, n)
			set(state, g+n.Offset, cellState{kind: cellAdd, val: 0})

		case ir.OpMovImm:
			set(state, g+n.Offset, cellState{kind: cellConst, val: n.Value})
			// Like Add, MovImm never emits directly: its value is only
			// realized later, via flushCell, at the point it's actually
			// observed (or dropped entirely if never observed).

		case ir.OpLoop, ir.OpSimpleLoop:
			cond := get(state, g)
			if cond.kind == cellConst && cond.val == 0 {
				// statically dead: drop the loop entirely.
				continue
			}
			out = append(out, flushAll(state, g)...)
			out = append(out, n)
			knowable = false
		}
	}
	return out
}
