// Package tracker computes which page section is active from scroll
// measurements supplied by the page.
package tracker

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
)

// HeaderOffset is added to the scroll position so a section counts as active
// once it passes under the fixed navigation header.
const HeaderOffset = 100.0

var (
	ErrNoSections         = errors.New("tracker: at least one section is required")
	ErrAlreadyRegistered  = errors.New("tracker: sections already registered")
	ErrNotRegistered      = errors.New("tracker: no sections registered")
	errEmptyID            = errors.New("tracker: section id is required")
	errNegativeDimensions = errors.New("tracker: section height must not be negative")
)

// Section is a vertically placed region of the page, in document pixels.
type Section struct {
	ID        string  `json:"id"`
	OffsetTop float64 `json:"offsetTop"`
	Height    float64 `json:"height"`
}

// Contains reports whether y falls in [OffsetTop, OffsetTop+Height).
func (s Section) Contains(y float64) bool {
	return y >= s.OffsetTop && y < s.OffsetTop+s.Height
}

// Snapshot is the tracker state handed to readers.
type Snapshot struct {
	Active         string  `json:"active"`
	Progress       float64 `json:"progress"`
	ScrollY        float64 `json:"scrollY"`
	ViewportHeight float64 `json:"viewportHeight"`
	DocumentHeight float64 `json:"documentHeight"`
}

// Tracker owns the active-section state of one page view. OnScroll is the
// only writer; readers take snapshots or subscribe.
type Tracker struct {
	mu       sync.RWMutex
	sections []Section
	active   string
	scrollY  float64
	viewport float64
	document float64
	subs     map[*Subscription]struct{}
}

// New returns a tracker with no sections registered.
func New() *Tracker {
	return &Tracker{subs: make(map[*Subscription]struct{})}
}

// Register installs the ordered section list. It can be called once; the
// list must be non-empty, have unique ids and ascending OffsetTop. The first
// section becomes the initial active section.
func (t *Tracker) Register(sections []Section) error {
	if err := validate(sections); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sections != nil {
		return ErrAlreadyRegistered
	}
	t.sections = slices.Clone(sections)
	t.active = t.sections[0].ID
	t.publishLocked()
	return nil
}

func validate(sections []Section) error {
	if len(sections) == 0 {
		return ErrNoSections
	}
	seen := make(map[string]bool, len(sections))
	for i, s := range sections {
		if s.ID == "" {
			return fmt.Errorf("section %d: %w", i, errEmptyID)
		}
		if s.Height < 0 {
			return fmt.Errorf("section %q: %w", s.ID, errNegativeDimensions)
		}
		if seen[s.ID] {
			return fmt.Errorf("tracker: duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
		if i > 0 && s.OffsetTop < sections[i-1].OffsetTop {
			return fmt.Errorf("tracker: section %q is above %q; sections must be sorted by offset",
				s.ID, sections[i-1].ID)
		}
	}
	return nil
}

// Registered reports whether Register has succeeded.
func (t *Tracker) Registered() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sections != nil
}

// Sections returns a copy of the registered sections.
func (t *Tracker) Sections() []Section {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.sections)
}

// OnScroll recomputes the active section from a fresh measurement. When no
// section contains the probe point the previous section stays active.
func (t *Tracker) OnScroll(scrollY, viewportHeight float64) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.scrollY = scrollY
	t.viewport = viewportHeight
	if id, ok := ActiveAt(t.sections, scrollY+HeaderOffset); ok {
		t.active = id
	}
	t.publishLocked()
	return t.snapshotLocked()
}

// SetDocumentHeight records the full scrollable height of the page.
func (t *Tracker) SetDocumentHeight(h float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.document = h
	t.publishLocked()
}

// Active returns the active section id; ok is false before registration.
func (t *Tracker) Active() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active, t.active != ""
}

// Progress returns the scroll progress ratio in [0, 1].
func (t *Tracker) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Progress(t.scrollY, t.document, t.viewport)
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		Active:         t.active,
		Progress:       Progress(t.scrollY, t.document, t.viewport),
		ScrollY:        t.scrollY,
		ViewportHeight: t.viewport,
		DocumentHeight: t.document,
	}
}

// ActiveAt returns the first section whose interval contains probeY.
// sections must be sorted by OffsetTop.
func ActiveAt(sections []Section, probeY float64) (string, bool) {
	for _, s := range sections {
		if s.Contains(probeY) {
			return s.ID, true
		}
		if s.OffsetTop > probeY {
			break
		}
	}
	return "", false
}

// Progress is scrollY / (documentHeight - viewportHeight) clamped to [0, 1].
// A page no taller than the viewport has progress 0.
func Progress(scrollY, documentHeight, viewportHeight float64) float64 {
	denom := documentHeight - viewportHeight
	if denom <= 0 {
		return 0
	}
	r := scrollY / denom
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
