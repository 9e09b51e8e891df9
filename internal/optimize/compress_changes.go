package optimize

import "tapec/internal/ir"

// CompressChanges hoists pointer moves into the offset of neighboring
// operations (spec §4.2). It is idempotent: running it on its own
// output is a no-op.
func CompressChanges(body []ir.Node) []ir.Node {
	return compressChanges(body, true)
}

// compressChanges is the recursive worker. topLevel controls whether a
// trailing pending displacement is dropped (true, top-level program —
// final pointer position is unobservable) or flushed (false, nested
// loop body — net displacement must be preserved for the caller).
func compressChanges(body []ir.Node, topLevel bool) []ir.Node {
	var out []ir.Node
	var pending ir.Offset

	flush := func() {
		if pending != 0 {
			out = append(out, ir.PtrChange(pending))
		}
		pending = 0
	}

	for _, n := range body {
		switch n.Op {
		case ir.OpPtrChange:
			pending += n.Offset
		case ir.OpAdd:
			out = append(out, ir.Add(n.Offset+pending, n.Value))
		case ir.OpPutch:
			out = append(out, ir.Putch(n.Offset+pending))
		case ir.OpGetch:
			out = append(out, ir.Getch(n.Offset+pending))
		case ir.OpLoop:
			flush()
			out = append(out, ir.Loop(compressChanges(n.Body, false)))
		case ir.OpSimpleLoop:
			flush()
			out = append(out, ir.SimpleLoop(n.Value, compressChanges(n.Body, false)))
		case ir.OpAddMul:
			flush()
			out = append(out, n)
		case ir.OpMovImm:
			flush()
			out = append(out, n)
		}
	}

	if !topLevel {
		flush()
	}
	return out
}
