package optimize

import (
	"golang.org/x/exp/slices"

	"tapec/internal/ir"
)

// CompressMuls recognizes the cell-clearing multiply-copy idiom —
// SimpleLoop(-1, body) where body is only PtrChange/Add — and
// replaces it with straight-line AddMul nodes plus a terminating
// MovImm(0, 0) (spec §4.4).
func CompressMuls(body []ir.Node) []ir.Node {
	var out []ir.Node
	for _, n := range body {
		switch n.Op {
		case ir.OpSimpleLoop:
			if n.Value != -1 {
				out = append(out, ir.SimpleLoop(n.Value, CompressMuls(n.Body)))
				continue
			}
			if muls, ok := synthesizeMuls(n.Body); ok {
				out = append(out, muls...)
				out = append(out, ir.MovImm(0, 0))
			} else {
				out = append(out, ir.SimpleLoop(n.Value, CompressMuls(n.Body)))
			}
		case ir.OpLoop:
			out = append(out, ir.Loop(CompressMuls(n.Body)))
		default:
			out = append(out, n)
		}
	}
	return out
}

// synthesizeMuls replays a SimpleLoop(-1, ...) body that consists
// solely of PtrChange/Add nodes into a {offset: summed delta} map. Any
// other node type means the idiom doesn't apply.
func synthesizeMuls(body []ir.Node) ([]ir.Node, bool) {
	changes := make(map[ir.Offset]ir.Value)
	var order []ir.Offset
	var off ir.Offset

	for _, n := range body {
		switch n.Op {
		case ir.OpPtrChange:
			off += n.Offset
		case ir.OpAdd:
			key := off + n.Offset
			if _, seen := changes[key]; !seen {
				order = append(order, key)
			}
			changes[key] += n.Value
		default:
			return nil, false
		}
	}

	slices.Sort(order)
	out := make([]ir.Node, 0, len(order))
	for _, key := range order {
		out = append(out, ir.AddMul(key, changes[key]))
	}
	return out, true
}
