package commands

import (
	"fmt"
	"os"
	"time"

	"tapec/internal/watch"
)

const defaultWatchAddr = ":4245"

// WatchCommand serves a websocket endpoint that recompiles the given
// file and broadcasts its PassStat events whenever the file's modtime
// changes, polling rather than using a filesystem-event library since
// none of this is in the dependency pack.
func WatchCommand(args []string) error {
	p := parseArgs(args, []string{"-addr"}, nil)
	if len(p.pos) < 1 {
		return fmt.Errorf("usage: tapec watch [-addr host:port] <file>")
	}
	path := p.pos[0]
	addr := p.stringOr("-addr", defaultWatchAddr)

	srv := watch.NewServer()
	go func() {
		if err := srv.ListenAndServe(addr); err != nil {
			fmt.Fprintf(os.Stderr, "watch: server: %v\n", err)
		}
	}()

	var lastMod time.Time
	recompile := func() error {
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		srv.Recompile(string(src))
		return nil
	}

	if err := recompile(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if info, err := os.Stat(path); err == nil {
		lastMod = info.ModTime()
	}

	fmt.Printf("watching %s on ws://%s/ws\n", path, addr)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(lastMod) {
			lastMod = info.ModTime()
			if err := recompile(); err != nil {
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			}
		}
	}
	return nil
}
