package tracker

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func pageSections() []Section {
	return []Section{
		{ID: "hero", OffsetTop: 0, Height: 500},
		{ID: "projects", OffsetTop: 500, Height: 800},
		{ID: "skills", OffsetTop: 1300, Height: 400},
		// gap between 1700 and 2000
		{ID: "contact", OffsetTop: 2000, Height: 600},
	}
}

func registered(t *testing.T, sections []Section) *Tracker {
	t.Helper()
	tr := New()
	if err := tr.Register(sections); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return tr
}

func TestScrollIntoSecondSection(t *testing.T) {
	tr := registered(t, []Section{
		{ID: "hero", OffsetTop: 0, Height: 500},
		{ID: "projects", OffsetTop: 500, Height: 800},
	})

	snap := tr.OnScroll(450, 900)
	if snap.Active != "projects" {
		t.Errorf("scrollY 450 -> probe 550: expected projects, got %q", snap.Active)
	}
}

func TestInitialActiveIsFirstSection(t *testing.T) {
	tr := registered(t, []Section{{ID: "about", OffsetTop: 100, Height: 900}})

	id, ok := tr.Active()
	if !ok || id != "about" {
		t.Fatalf("expected initial active about, got %q (ok=%v)", id, ok)
	}

	// probe = 0 + 100 lands exactly on the section's top edge.
	if snap := tr.OnScroll(0, 800); snap.Active != "about" {
		t.Errorf("expected about at scrollY 0, got %q", snap.Active)
	}
}

func TestActiveBeforeRegistration(t *testing.T) {
	tr := New()
	if _, ok := tr.Active(); ok {
		t.Error("expected no active section before registration")
	}
	if snap := tr.OnScroll(300, 800); snap.Active != "" {
		t.Errorf("expected empty active section, got %q", snap.Active)
	}
}

func TestGapRetainsPreviousSection(t *testing.T) {
	tr := registered(t, pageSections())

	if snap := tr.OnScroll(1400, 800); snap.Active != "skills" {
		t.Fatalf("expected skills, got %q", snap.Active)
	}
	// probe 1750 sits in the gap.
	if snap := tr.OnScroll(1650, 800); snap.Active != "skills" {
		t.Errorf("gap should retain skills, got %q", snap.Active)
	}
	// Repeated gap measurements keep the same answer.
	if snap := tr.OnScroll(1700, 800); snap.Active != "skills" {
		t.Errorf("gap should retain skills, got %q", snap.Active)
	}
	if snap := tr.OnScroll(1950, 800); snap.Active != "contact" {
		t.Errorf("expected contact, got %q", snap.Active)
	}
	// Scrolling past the last section keeps it active.
	if snap := tr.OnScroll(9000, 800); snap.Active != "contact" {
		t.Errorf("expected contact past the end, got %q", snap.Active)
	}
}

func TestIntervalBoundaries(t *testing.T) {
	sections := pageSections()
	tests := []struct {
		probe float64
		want  string
		ok    bool
	}{
		{0, "hero", true},
		{499.9, "hero", true},
		{500, "projects", true},
		{1299, "projects", true},
		{1300, "skills", true},
		{1700, "", false},
		{1999, "", false},
		{2000, "contact", true},
		{2600, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := ActiveAt(sections, tt.probe)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ActiveAt(%v) = (%q, %v), want (%q, %v)", tt.probe, got, ok, tt.want, tt.ok)
		}
	}
}

func TestActiveAtMatchesBruteForce(t *testing.T) {
	sections := pageSections()
	for probe := -50.0; probe < 2700; probe += 7 {
		want, wantOK := "", false
		for _, s := range sections {
			if probe >= s.OffsetTop && probe < s.OffsetTop+s.Height {
				want, wantOK = s.ID, true
				break
			}
		}
		got, ok := ActiveAt(sections, probe)
		if got != want || ok != wantOK {
			t.Fatalf("probe %v: got (%q, %v), want (%q, %v)", probe, got, ok, want, wantOK)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		want     string
	}{
		{"empty", nil, "at least one section"},
		{"missing id", []Section{{OffsetTop: 0, Height: 1}}, "id is required"},
		{"duplicate", []Section{{ID: "a"}, {ID: "a", OffsetTop: 10}}, "duplicate"},
		{"unsorted", []Section{{ID: "a", OffsetTop: 100}, {ID: "b", OffsetTop: 50}}, "sorted"},
		{"negative height", []Section{{ID: "a", Height: -1}}, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Register(tt.sections)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRegisterOnce(t *testing.T) {
	tr := registered(t, pageSections())
	if err := tr.Register(pageSections()); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterCopiesInput(t *testing.T) {
	in := pageSections()
	tr := registered(t, in)
	in[0].ID = "mutated"
	if tr.Sections()[0].ID != "hero" {
		t.Error("caller mutation leaked into registered sections")
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name                   string
		scrollY, doc, viewport float64
		want                   float64
	}{
		{"short page", 0, 600, 800, 0},
		{"equal heights", 100, 800, 800, 0},
		{"top", 0, 2800, 800, 0},
		{"middle", 1000, 2800, 800, 0.5},
		{"bottom", 2000, 2800, 800, 1},
		{"overscroll", 2500, 2800, 800, 1},
		{"negative scroll", -40, 2800, 800, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.scrollY, tt.doc, tt.viewport); got != tt.want {
				t.Errorf("Progress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressStrictlyIncreasing(t *testing.T) {
	prev := -1.0
	for y := 0.0; y <= 2000; y += 25 {
		p := Progress(y, 2800, 800)
		if p <= prev {
			t.Fatalf("progress not strictly increasing at scrollY %v: %v <= %v", y, p, prev)
		}
		prev = p
	}
}

func TestTrackerProgressUsesDocumentHeight(t *testing.T) {
	tr := registered(t, pageSections())
	tr.SetDocumentHeight(2600)
	tr.OnScroll(900, 800)
	if got := tr.Progress(); got != 0.5 {
		t.Errorf("expected progress 0.5, got %v", got)
	}
}

func TestSubscribeDeliversLatest(t *testing.T) {
	tr := registered(t, pageSections())
	sub := tr.Subscribe()
	defer sub.Close()

	// Initial snapshot is delivered immediately.
	select {
	case snap := <-sub.C:
		if snap.Active != "hero" {
			t.Errorf("expected initial hero, got %q", snap.Active)
		}
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	tr.OnScroll(450, 800)
	tr.OnScroll(1250, 800)

	select {
	case snap := <-sub.C:
		if snap.Active != "skills" {
			t.Errorf("expected only the latest snapshot (skills), got %q", snap.Active)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot after scroll")
	}
}

func TestSubscriptionCloseReleases(t *testing.T) {
	tr := registered(t, pageSections())
	sub := tr.Subscribe()
	if tr.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", tr.Subscribers())
	}

	sub.Close()
	sub.Close()
	if tr.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers after Close, got %d", tr.Subscribers())
	}

	// Drain whatever was buffered; the channel must end closed.
	for range sub.C {
	}

	// Scrolling after release must not panic on a closed channel.
	tr.OnScroll(450, 800)
}
