package compileerr_test

import (
	"strings"
	"testing"

	"tapec/internal/compileerr"
)

func TestUnterminatedLoopRendering(t *testing.T) {
	err := compileerr.NewUnterminatedLoop(2, 5).WithSource("  [+")
	msg := err.Error()
	if err.Kind != compileerr.UnterminatedLoop {
		t.Fatalf("got kind %v", err.Kind)
	}
	if !strings.Contains(msg, "2:5") {
		t.Fatalf("rendering missing location: %q", msg)
	}
	if !strings.Contains(msg, "[+") {
		t.Fatalf("rendering missing source: %q", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Fatalf("rendering missing caret: %q", msg)
	}
}

func TestUnexpectedLoopTerminationHasDistinctKind(t *testing.T) {
	err := compileerr.NewUnexpectedLoopTermination(1, 1)
	if err.Kind != compileerr.UnexpectedLoopTermination {
		t.Fatalf("got kind %v", err.Kind)
	}
}

func TestErrorWithoutLocationOmitsPositionLine(t *testing.T) {
	err := &compileerr.Error{Kind: compileerr.EmitError, Message: "backend failed"}
	msg := err.Error()
	if strings.Contains(msg, " at ") {
		t.Fatalf("expected no location line, got %q", msg)
	}
}
