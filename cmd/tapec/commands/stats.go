package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"tapec/internal/optimize"
	"tapec/internal/pipeline"
)

const (
	ansiGreen = "\x1b[32m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// printPassStats renders the per-pass node counts, colorized only when
// stdout is a real terminal.
func printPassStats(w io.Writer, stats []optimize.PassStat) {
	color := isatty.IsTerminal(os.Stdout.Fd())
	for _, s := range stats {
		delta := s.NodesBefore - s.NodesAfter
		line := fmt.Sprintf("  %-22s %6d -> %-6d (%+d nodes, %s)",
			s.Name, s.NodesBefore, s.NodesAfter, -delta, s.Elapsed)
		if color && delta > 0 {
			fmt.Fprintln(w, ansiGreen+line+ansiReset)
		} else if color {
			fmt.Fprintln(w, ansiDim+line+ansiReset)
		} else {
			fmt.Fprintln(w, line)
		}
	}
}

// printBuildResults prints one human-readable size line per backend
// result, using humanize for the byte count.
func printBuildResults(w io.Writer, results []pipeline.Result, cacheNote string) {
	for _, r := range results {
		fmt.Fprintf(w, "  %-10s %s%s\n", r.Backend, humanize.Bytes(uint64(len(r.Text))), cacheNote)
	}
}
