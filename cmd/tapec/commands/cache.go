package commands

import (
	"context"
	"fmt"
	"strconv"

	"tapec/internal/buildcache"
)

// CacheCommand inspects a build cache entry. Usage:
//
//	tapec cache lookup [-cache-driver d] -cache-dsn dsn -backend b -m size <file>
func CacheCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tapec cache <lookup> [flags] <file>")
	}
	switch args[0] {
	case "lookup":
		return cacheLookup(args[1:])
	default:
		return fmt.Errorf("cache: unknown subcommand %q", args[0])
	}
}

func cacheLookup(args []string) error {
	p := parseArgs(args, []string{"-cache-driver", "-cache-dsn", "-backend", "-m"}, nil)
	if len(p.pos) < 1 {
		return fmt.Errorf("usage: tapec cache lookup -cache-dsn dsn -backend b [-m size] <file>")
	}
	dsn := p.stringOr("-cache-dsn", "")
	if dsn == "" {
		return fmt.Errorf("cache lookup: -cache-dsn is required")
	}
	driver := p.stringOr("-cache-driver", buildcache.DriverSQLite)
	backendName := p.stringOr("-backend", "c")
	memSize := defaultMemSize
	if v := p.stringOr("-m", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("cache lookup: bad -m value %q: %w", v, err)
		}
		memSize = n
	}

	ctx := context.Background()
	cache, err := buildcache.Open(ctx, driver, dsn)
	if err != nil {
		return fmt.Errorf("cache lookup: %w", err)
	}
	defer cache.Close()

	src, err := readFile(p.pos[0])
	if err != nil {
		return fmt.Errorf("cache lookup: %w", err)
	}

	key := buildcache.Key(src, backendName, memSize)
	entry, hit, err := cache.Lookup(ctx, key, backendName, memSize)
	if err != nil {
		return fmt.Errorf("cache lookup: %w", err)
	}
	if !hit {
		fmt.Println("miss")
		return nil
	}
	fmt.Printf("hit build=%s bytes=%d\n", entry.BuildID, len(entry.Output))
	return nil
}
