package optimize

import (
	"golang.org/x/exp/slices"

	"tapec/internal/ir"
)

// RemoveUnreadStores eliminates MovImm stores whose value is
// overwritten or never observed before the next write to the same
// cell (spec §4.6).
func RemoveUnreadStores(body []ir.Node) []ir.Node {
	return removeUnreadStores(body, 0, false)
}

func flushWrites(writes map[ir.Offset]ir.Value, g ir.Offset) []ir.Node {
	targets := make([]ir.Offset, 0, len(writes))
	for target := range writes {
		targets = append(targets, target)
	}
	slices.Sort(targets)

	out := make([]ir.Node, 0, len(targets))
	for _, target := range targets {
		out = append(out, ir.MovImm(target-g, writes[target]))
		delete(writes, target)
	}
	return out
}

// removeUnreadStores walks body tracking pending MovImm writes keyed
// by absolute cell location idx+off. When flush is true, any writes
// still pending at the end of body are emitted (needed so a caller
// can observe them); at the outermost level they are simply dropped,
// since nothing downstream can read them.
func removeUnreadStores(body []ir.Node, idx ir.Offset, flush bool) []ir.Node {
	var out []ir.Node
	var off ir.Offset
	writes := make(map[ir.Offset]ir.Value)
	knowable := true

	for _, n := range body {
		if !knowable {
			out = append(out, n)
			continue
		}
		g := idx + off

		switch n.Op {
		case ir.OpLoop:
			out = append(out, flushWrites(writes, g)...)
			out = append(out, n)
			knowable = false

		case ir.OpSimpleLoop:
			out = append(out, flushWrites(writes, g)...)
			out = append(out, ir.SimpleLoop(n.Value, removeUnreadStores(n.Body, g, true)))
			writes[g] = 0

		case ir.OpAddMul:
			dst := g + n.Offset
			if v, ok := writes[dst]; ok {
				out = append(out, ir.MovImm(n.Offset, v))
				delete(writes, dst)
			}
			if v, ok := writes[g]; ok {
				out = append(out, ir.MovImm(0, v))
				delete(writes, g)
			}
			out = append(out, n)

		case ir.OpPtrChange:
			off += n.Offset
			out = append(out, n)

		case ir.OpAdd:
			target := g + n.Offset
			if v, ok := writes[target]; ok {
				out = append(out, ir.MovImm(n.Offset, v))
				delete(writes, target)
			}
			out = append(out, n)

		case ir.OpPutch:
			target := g + n.Offset
			if v, ok := writes[target]; ok {
				out = append(out, ir.MovImm(n.Offset, v))
				delete(writes, target)
			}
			out = append(out, n)

		case ir.OpGetch:
			delete(writes, g+n.Offset)
			out = append(out, n)

		case ir.OpMovImm:
			writes[g+n.Offset] = n.Value
		}
	}

	if flush {
		out = append(out, flushWrites(writes, idx+off)...)
	}
	return out
}
