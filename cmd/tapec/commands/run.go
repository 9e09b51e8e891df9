package commands

import (
	"fmt"
	"os"

	"tapec/internal/eval"
	"tapec/internal/ir"
	"tapec/internal/optimize"
	"tapec/internal/parser"
)

// RunCommand parses, optimizes (unless -raw is given), and interprets
// a source file against stdin/stdout.
func RunCommand(args []string) error {
	p := parseArgs(args, nil, []string{"-raw"})
	if len(p.pos) < 1 {
		return fmt.Errorf("usage: tapec run [-raw] <file>")
	}

	src, err := os.ReadFile(p.pos[0])
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	prog, err := parser.ParseFile(p.pos[0], string(src))
	if err != nil {
		return err
	}

	code := ir.Lower(prog)
	if !p.switches["-raw"] {
		code = optimize.Optimize(code)
	}

	sio := eval.NewStreamIO(os.Stdin, os.Stdout)
	eval.Eval(code, sio)
	return sio.Flush()
}
