// Package optimize implements the core of the compiler: a fixed
// sequence of semantics-preserving rewrites over the IR (spec §4).
// Every pass is pure — it consumes one IR tree and returns a fresh
// one — and the pipeline runs each pass exactly once, in the order
// given by spec §4.7.
package optimize

import (
	"time"

	"tapec/internal/ir"
)

// PassStat records the effect of one pipeline step, for -stats
// reporting and the watch stream. It has no bearing on the IR
// produced; collecting it is purely observational.
type PassStat struct {
	Name       string
	NodesBefore int
	NodesAfter  int
	Elapsed     time.Duration
}

// Optimize runs the fixed seven-step pipeline once and returns the
// optimized IR.
func Optimize(prog []ir.Node) []ir.Node {
	prog = CompressChanges(prog)
	prog = SimplifyLoop(prog)
	prog = CompressChanges(prog)
	prog = CompressMuls(prog)
	prog = CollapseConsts(prog)
	prog = RemoveUnreadStores(prog)
	prog = CompressChanges(prog)
	return prog
}

// OptimizeWithStats runs the same pipeline as Optimize but additionally
// records a PassStat per step.
func OptimizeWithStats(prog []ir.Node) ([]ir.Node, []PassStat) {
	steps := []struct {
		name string
		fn   func([]ir.Node) []ir.Node
	}{
		{"compress_changes", CompressChanges},
		{"simplify_loop", SimplifyLoop},
		{"compress_changes", CompressChanges},
		{"compress_muls", CompressMuls},
		{"collapse_consts", CollapseConsts},
		{"remove_unread_stores", RemoveUnreadStores},
		{"compress_changes", CompressChanges},
	}

	stats := make([]PassStat, 0, len(steps))
	for _, step := range steps {
		before := ir.Count(prog)
		start := time.Now()
		prog = step.fn(prog)
		elapsed := time.Since(start)
		stats = append(stats, PassStat{
			Name:        step.name,
			NodesBefore: before,
			NodesAfter:  ir.Count(prog),
			Elapsed:     elapsed,
		})
	}
	return prog, stats
}
