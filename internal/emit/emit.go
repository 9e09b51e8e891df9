// Package emit defines the contract every code-generating backend
// implements: a pattern-directed printer from optimized IR to target
// text (spec §6's core/backend boundary).
package emit

import (
	"io"

	"tapec/internal/ir"
)

// Backend lowers optimized IR to target text over a fixed-size cell
// array of memSize bytes.
type Backend interface {
	// Name identifies the backend for CLI selection and cache keys.
	Name() string
	// Emit writes the target text for prog to w.
	Emit(w io.Writer, prog []ir.Node, memSize int) error
}
