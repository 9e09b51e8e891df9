package ir_test

import (
	"testing"

	"tapec/internal/ast"
	"tapec/internal/ir"
)

func TestLowerMapsEachNodeOneToOne(t *testing.T) {
	prog := &ast.Program{Nodes: []ast.Node{
		ast.NewPtrAdvance(),
		ast.NewPtrRetreat(),
		ast.NewIncr(),
		ast.NewDecr(),
		ast.NewPutch(),
		ast.NewGetch(),
	}}
	got := ir.Lower(prog)
	want := []ir.Node{
		ir.PtrChange(1),
		ir.PtrChange(-1),
		ir.Add(0, 1),
		ir.Add(0, -1),
		ir.Putch(0),
		ir.Getch(0),
	}
	if !ir.Equal(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLowerRecursesIntoLoopBodies(t *testing.T) {
	prog := &ast.Program{Nodes: []ast.Node{
		ast.NewLoop([]ast.Node{ast.NewIncr(), ast.NewLoop([]ast.Node{ast.NewDecr()})}),
	}}
	got := ir.Lower(prog)
	if len(got) != 1 || got[0].Op != ir.OpLoop {
		t.Fatalf("got %+v, want a single Loop", got)
	}
	if len(got[0].Body) != 2 || got[0].Body[1].Op != ir.OpLoop {
		t.Fatalf("unexpected lowered body: %+v", got[0].Body)
	}
}

func TestEqualDistinguishesOffsetAndValue(t *testing.T) {
	a := []ir.Node{ir.Add(1, 2)}
	b := []ir.Node{ir.Add(1, 3)}
	if ir.Equal(a, b) {
		t.Fatal("expected nodes with different Value to compare unequal")
	}
	c := []ir.Node{ir.Add(2, 2)}
	if ir.Equal(a, c) {
		t.Fatal("expected nodes with different Offset to compare unequal")
	}
}

func TestEqualRecursesIntoBody(t *testing.T) {
	a := []ir.Node{ir.Loop([]ir.Node{ir.Add(0, 1)})}
	b := []ir.Node{ir.Loop([]ir.Node{ir.Add(0, 2)})}
	if ir.Equal(a, b) {
		t.Fatal("expected loops with different bodies to compare unequal")
	}
}

func TestCountIncludesNestedBodies(t *testing.T) {
	prog := []ir.Node{
		ir.Add(0, 1),
		ir.Loop([]ir.Node{ir.Add(0, 1), ir.Loop([]ir.Node{ir.Putch(0)})}),
	}
	if got := ir.Count(prog); got != 5 {
		t.Fatalf("got count %d, want 5", got)
	}
}
