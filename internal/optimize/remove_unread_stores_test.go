package optimize_test

import (
	"testing"

	"tapec/internal/ir"
	"tapec/internal/optimize"
)

// A MovImm immediately overwritten by a second MovImm to the same
// cell, with no observation in between, is dropped. So is the final
// surviving write, since memory state at program end is unobservable
// (the same rule compress_changes applies to a trailing pointer move).
func TestRemoveUnreadStoresDropsOverwrittenWrite(t *testing.T) {
	in := []ir.Node{ir.MovImm(0, 3), ir.MovImm(0, 7)}
	got := optimize.RemoveUnreadStores(in)
	if len(got) != 0 {
		t.Fatalf("got %+v, want no nodes", got)
	}
}

// A write observed by Putch before being overwritten survives; the
// later overwrite, never itself observed, is dropped.
func TestRemoveUnreadStoresKeepsObservedWrite(t *testing.T) {
	in := []ir.Node{ir.MovImm(0, 3), ir.Putch(0), ir.MovImm(0, 7)}
	got := optimize.RemoveUnreadStores(in)
	want := []ir.Node{ir.MovImm(0, 3), ir.Putch(0)}
	if !ir.Equal(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

// Getch clears any pending write to the cell it targets, since the
// write is about to be overwritten by the read regardless.
func TestRemoveUnreadStoresGetchClearsPendingWrite(t *testing.T) {
	in := []ir.Node{ir.MovImm(0, 3), ir.Getch(0), ir.Putch(0)}
	got := optimize.RemoveUnreadStores(in)
	want := []ir.Node{ir.Getch(0), ir.Putch(0)}
	if !ir.Equal(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

// A generic Loop flushes pending writes before it (they might be read
// on a later iteration via the loop condition cell) and the pass stops
// tracking after it, since a Loop's final displacement isn't known
// statically.
func TestRemoveUnreadStoresFlushesBeforeGenericLoop(t *testing.T) {
	in := []ir.Node{
		ir.MovImm(0, 5),
		ir.Loop([]ir.Node{ir.Add(0, -1)}),
	}
	got := optimize.RemoveUnreadStores(in)
	want := []ir.Node{
		ir.MovImm(0, 5),
		ir.Loop([]ir.Node{ir.Add(0, -1)}),
	}
	if !ir.Equal(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

// A SimpleLoop's net-zero displacement lets the pass recurse into its
// body at a consistent absolute addressing base, dropping the
// unobserved first write there too. The loop also leaves its own
// condition cell known to be zero afterward, which folds into a
// MovImm(0, 0) once that cell is next observed.
func TestRemoveUnreadStoresRecursesIntoSimpleLoopBody(t *testing.T) {
	in := []ir.Node{
		ir.SimpleLoop(-1, []ir.Node{
			ir.MovImm(1, 2), ir.MovImm(1, 9), ir.Putch(1),
		}),
		ir.Putch(0),
	}
	got := optimize.RemoveUnreadStores(in)
	want := []ir.Node{
		ir.SimpleLoop(-1, []ir.Node{ir.MovImm(1, 9), ir.Putch(1)}),
		ir.MovImm(0, 0),
		ir.Putch(0),
	}
	if !ir.Equal(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
