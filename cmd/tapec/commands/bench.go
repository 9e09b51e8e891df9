package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"tapec/internal/eval"
	"tapec/internal/ir"
	"tapec/internal/optimize"
	"tapec/internal/parser"
)

// discardIO counts bytes without writing them, and feeds zero on read;
// bench runs have no real stdin.
type discardIO struct{ n int }

func (d *discardIO) Putchar(ir.Value)  { d.n++ }
func (d *discardIO) Getchar() ir.Value { return 0 }

// BenchCommand times the unoptimized and optimized IR for the same
// program side by side, per spec.md's node-count reduction being the
// thing -stats reports on elsewhere.
func BenchCommand(args []string) error {
	p := parseArgs(args, nil, nil)
	if len(p.pos) < 1 {
		return fmt.Errorf("usage: tapec bench <file>")
	}

	src, err := os.ReadFile(p.pos[0])
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	prog, err := parser.ParseFile(p.pos[0], string(src))
	if err != nil {
		return err
	}

	raw := ir.Lower(prog)
	optimized := optimize.Optimize(raw)

	rawIO := &discardIO{}
	start := time.Now()
	eval.Eval(raw, rawIO)
	rawElapsed := time.Since(start)

	optIO := &discardIO{}
	start = time.Now()
	eval.Eval(optimized, optIO)
	optElapsed := time.Since(start)

	fmt.Printf("raw nodes:       %s\n", humanize.Comma(int64(ir.Count(raw))))
	fmt.Printf("optimized nodes: %s\n", humanize.Comma(int64(ir.Count(optimized))))
	fmt.Printf("raw eval:        %s (%d bytes out)\n", rawElapsed, rawIO.n)
	fmt.Printf("optimized eval:  %s (%d bytes out)\n", optElapsed, optIO.n)
	return nil
}
