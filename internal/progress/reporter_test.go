package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	var buf bytes.Buffer
	r := NewReporter(&buf)
	if _, ok := r.(*CIReporter); !ok {
		t.Fatalf("expected CIReporter under CI, got %T", r)
	}

	r.Start(2)
	r.Update(1, "alpha")
	r.Update(2, "beta")
	r.Finish()

	out := buf.String()
	for _, want := range []string{"Syncing 2 repositories", "[1/2] alpha", "[2/2] beta", "complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	var buf bytes.Buffer
	r := NewReporter(&buf)
	if _, ok := r.(*TerminalReporter); !ok {
		t.Fatalf("expected TerminalReporter, got %T", r)
	}
	r.Start(3)
	r.Update(1, "one")
	r.Finish()
}

func TestTerminalReporterUpdateBeforeStart(t *testing.T) {
	r := &TerminalReporter{}
	// No bar yet; must not panic.
	r.Update(1, "early")
	r.Finish()
}
