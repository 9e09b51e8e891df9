package commands

import (
	"fmt"
	"os"
	"strconv"

	"tapec/internal/emit"
	"tapec/internal/emit/c"
	"tapec/internal/emit/llvmgen"
	"tapec/internal/emit/riscv"
	"tapec/internal/emit/x86"
	"tapec/internal/ir"
	"tapec/internal/optimize"
	"tapec/internal/parser"
)

// backends lists every registered emit.Backend by the name passed to
// -backend.
var backends = map[string]emit.Backend{
	"c":       c.Backend{},
	"x86-64":  x86.Backend{},
	"riscv64": riscv.Backend{},
	"llvm":    llvmgen.Backend{},
}

const defaultMemSize = 30000

// EmitCommand compiles a single source file through one backend.
func EmitCommand(args []string) error {
	p := parseArgs(args, []string{"-backend", "-m", "-o"}, []string{"-raw"})
	if len(p.pos) < 1 {
		return fmt.Errorf("usage: tapec emit -backend <c|x86-64|riscv64|llvm> [-m size] [-o file] <file>")
	}

	backendName := p.stringOr("-backend", "c")
	backend, ok := backends[backendName]
	if !ok {
		return fmt.Errorf("emit: unknown backend %q", backendName)
	}

	memSize := defaultMemSize
	if v := p.stringOr("-m", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("emit: bad -m value %q: %w", v, err)
		}
		memSize = n
	}

	src, err := os.ReadFile(p.pos[0])
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}

	prog, err := parser.ParseFile(p.pos[0], string(src))
	if err != nil {
		return err
	}

	code := ir.Lower(prog)
	if !p.switches["-raw"] {
		code = optimize.Optimize(code)
	}

	out := os.Stdout
	if target := p.stringOr("-o", ""); target != "" {
		f, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("emit: %w", err)
		}
		defer f.Close()
		out = f
	}

	return backend.Emit(out, code, memSize)
}
