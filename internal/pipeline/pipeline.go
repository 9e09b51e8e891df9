// Package pipeline runs the optimized IR through one or more emit
// backends concurrently. Backends only read the finished tree, so
// unlike the optimizer passes themselves (always sequential, per
// spec §5) there's no coordination needed between them.
package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tapec/internal/emit"
	"tapec/internal/ir"
)

// Result holds one backend's emitted text, keyed by backend name.
type Result struct {
	Backend string
	Text    []byte
}

// Run emits prog through every backend in backends concurrently and
// returns one Result per backend, in the same order backends was
// given. Backends that are already running are not cancelled when one
// fails; Run waits for all of them and returns the first error.
func Run(ctx context.Context, backends []emit.Backend, prog []ir.Node, memSize int) ([]Result, error) {
	results := make([]Result, len(backends))
	g, _ := errgroup.WithContext(ctx)

	for i, b := range backends {
		i, b := i, b
		g.Go(func() error {
			var buf bytes.Buffer
			if err := b.Emit(&buf, prog, memSize); err != nil {
				return fmt.Errorf("%s: %w", b.Name(), err)
			}
			results[i] = Result{Backend: b.Name(), Text: buf.Bytes()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
