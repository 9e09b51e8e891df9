package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tapec/internal/buildcache"
	"tapec/internal/emit"
	"tapec/internal/ir"
	"tapec/internal/optimize"
	"tapec/internal/parser"
	"tapec/internal/pipeline"
)

var backendExt = map[string]string{
	"c":       "c",
	"x86-64":  "s",
	"riscv64": "s",
	"llvm":    "ll",
}

// BuildCommand runs every registered backend over a source file and
// writes each backend's output into outDir, skipping backends whose
// output is already in the build cache.
func BuildCommand(args []string) error {
	p := parseArgs(args,
		[]string{"-m", "-o", "-cache-driver", "-cache-dsn"},
		[]string{"-stats"})
	if len(p.pos) < 1 {
		return fmt.Errorf("usage: tapec build [-m size] [-o dir] [-stats] [-cache-driver d -cache-dsn dsn] <file>")
	}

	memSize := defaultMemSize
	if v := p.stringOr("-m", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("build: bad -m value %q: %w", v, err)
		}
		memSize = n
	}

	srcPath := p.pos[0]
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	prog, err := parser.ParseFile(srcPath, string(src))
	if err != nil {
		return err
	}

	code := ir.Lower(prog)
	var stats []optimize.PassStat
	if p.switches["-stats"] {
		code, stats = optimize.OptimizeWithStats(code)
		printPassStats(os.Stdout, stats)
	} else {
		code = optimize.Optimize(code)
	}

	ctx := context.Background()

	var cache *buildcache.Cache
	if dsn := p.stringOr("-cache-dsn", ""); dsn != "" {
		driver := p.stringOr("-cache-driver", buildcache.DriverSQLite)
		cache, err = buildcache.Open(ctx, driver, dsn)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}
		defer cache.Close()
	}

	all := []emit.Backend{backends["c"], backends["x86-64"], backends["riscv64"], backends["llvm"]}

	outDir := p.stringOr("-o", ".")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	pending := all
	results := make([]pipeline.Result, 0, len(all))
	notes := make(map[string]string)

	if cache != nil {
		pending = pending[:0]
		for _, b := range all {
			key := buildcache.Key(string(src), b.Name(), memSize)
			entry, hit, err := cache.Lookup(ctx, key, b.Name(), memSize)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			if hit {
				results = append(results, pipeline.Result{Backend: b.Name(), Text: entry.Output})
				notes[b.Name()] = fmt.Sprintf(" (cached, build %s)", entry.BuildID)
				continue
			}
			pending = append(pending, b)
		}
	}

	if len(pending) > 0 {
		fresh, err := pipeline.Run(ctx, pending, code, memSize)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}
		for _, r := range fresh {
			if cache != nil {
				key := buildcache.Key(string(src), r.Backend, memSize)
				buildID, err := cache.Store(ctx, key, r.Backend, memSize, r.Text)
				if err != nil {
					return fmt.Errorf("build: %w", err)
				}
				notes[r.Backend] = fmt.Sprintf(" (build %s)", buildID)
			}
			results = append(results, r)
		}
	}

	for _, r := range results {
		ext, ok := backendExt[r.Backend]
		if !ok {
			ext = "out"
		}
		target := filepath.Join(outDir, baseName(srcPath)+"."+ext)
		if err := os.WriteFile(target, r.Text, 0o644); err != nil {
			return fmt.Errorf("build: %w", err)
		}
	}

	if p.switches["-stats"] {
		printBuildResults(os.Stdout, results, "")
		for _, r := range results {
			if note, ok := notes[r.Backend]; ok && note != "" {
				fmt.Printf("  %-10s%s\n", r.Backend, note)
			}
		}
	}

	return nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
