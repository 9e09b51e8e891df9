package parser_test

import (
	"strings"
	"testing"

	"tapec/internal/ast"
	"tapec/internal/compileerr"
	"tapec/internal/parser"
)

func TestParseFlatProgram(t *testing.T) {
	prog, err := parser.Parse("+-><.,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ast.Kind{ast.Incr, ast.Decr, ast.PtrAdvance, ast.PtrRetreat, ast.Putch, ast.Getch}
	if len(prog.Nodes) != len(want) {
		t.Fatalf("got %d nodes, want %d", len(prog.Nodes), len(want))
	}
	for i, k := range want {
		if prog.Nodes[i].Kind != k {
			t.Fatalf("node %d: got kind %v, want %v", i, prog.Nodes[i].Kind, k)
		}
	}
}

func TestParseNestedLoops(t *testing.T) {
	prog, err := parser.Parse("+[-[+]-]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Nodes) != 2 {
		t.Fatalf("got %d top-level nodes, want 2", len(prog.Nodes))
	}
	outer := prog.Nodes[1]
	if outer.Kind != ast.Loop || len(outer.Body) != 3 {
		t.Fatalf("unexpected outer loop shape: %+v", outer)
	}
	inner := outer.Body[1]
	if inner.Kind != ast.Loop || len(inner.Body) != 1 {
		t.Fatalf("unexpected inner loop shape: %+v", inner)
	}
}

func TestParseIgnoresNonCommandRunes(t *testing.T) {
	prog, err := parser.Parse("+ this is a comment\n+.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3 (two Incr, one Putch)", len(prog.Nodes))
	}
}

func TestParseUnterminatedLoop(t *testing.T) {
	_, err := parser.Parse("+[-")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	ce, ok := err.(*compileerr.Error)
	if !ok {
		t.Fatalf("expected *compileerr.Error, got %T", err)
	}
	if ce.Kind != compileerr.UnterminatedLoop {
		t.Fatalf("got kind %v, want UnterminatedLoop", ce.Kind)
	}
	if ce.Location.Line != 1 || ce.Location.Column != 2 {
		t.Fatalf("got location %+v, want line 1 col 2", ce.Location)
	}
}

func TestParseUnexpectedLoopTermination(t *testing.T) {
	_, err := parser.Parse("+]")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	ce, ok := err.(*compileerr.Error)
	if !ok {
		t.Fatalf("expected *compileerr.Error, got %T", err)
	}
	if ce.Kind != compileerr.UnexpectedLoopTermination {
		t.Fatalf("got kind %v, want UnexpectedLoopTermination", ce.Kind)
	}
}

func TestParseTracksLineAndColumnAcrossNewlines(t *testing.T) {
	_, err := parser.Parse("+\n+\n[")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	ce := err.(*compileerr.Error)
	if ce.Location.Line != 3 || ce.Location.Column != 1 {
		t.Fatalf("got location %+v, want line 3 col 1", ce.Location)
	}
}

func TestParseErrorRendersSourceLine(t *testing.T) {
	_, err := parser.ParseFile("prog.bf", "+]")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	rendered := err.Error()
	if !strings.Contains(rendered, "prog.bf:1:2") {
		t.Fatalf("rendered error missing location: %q", rendered)
	}
	if !strings.Contains(rendered, "+]") {
		t.Fatalf("rendered error missing source line: %q", rendered)
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog, err := parser.Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Nodes) != 0 {
		t.Fatalf("got %d nodes, want 0", len(prog.Nodes))
	}
}
