// Package projects runs "load projects" cycles: it asks the portfolio API for
// the live project list and, on any failure, substitutes the bundled fallback
// list while keeping the failure for the UI to report.
package projects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ziadkadry99/folio/internal/fetch"
	"github.com/ziadkadry99/folio/internal/portfolio"
)

// Path is the API route that serves the live project list.
const Path = "/github/projects"

// ErrClosed is returned by Load once the loader has been torn down.
var ErrClosed = errors.New("project loader closed")

// Fetcher is the subset of fetch.Client the loader needs.
type Fetcher interface {
	Request(ctx context.Context, method, path string, body any) (*fetch.Response, error)
}

// Source tells where the working project set came from.
type Source string

const (
	SourceNone     Source = ""
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// State is a read-only snapshot of the loader for rendering.
type State struct {
	Loading   bool
	LastError error
	Projects  []portfolio.Project
	Source    Source
	UpdatedAt time.Time
	Cycles    int
}

// Result is the outcome of one load cycle. Err == nil means the live list was
// applied; otherwise Projects holds the fallback list and Err the reason.
type Result struct {
	Projects []portfolio.Project
	Err      error
}

// OK reports whether the cycle applied live data.
func (r Result) OK() bool { return r.Err == nil }

// Loader owns the working project set of one hosting view.
type Loader struct {
	fetcher  Fetcher
	fallback []portfolio.Project
	logger   *slog.Logger
	now      func() time.Time

	group singleflight.Group

	// life is cancelled by Close so in-flight requests stop early.
	life   context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	state  State
	closed bool
	subs   map[chan State]struct{}
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for failure reports.
func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(ld *Loader) { ld.now = now }
}

// NewLoader creates a loader that falls back to fallback. fallback is copied.
func NewLoader(fetcher Fetcher, fallback []portfolio.Project, opts ...Option) *Loader {
	life, cancel := context.WithCancel(context.Background())
	l := &Loader{
		fetcher:  fetcher,
		fallback: portfolio.CloneProjects(fallback),
		logger:   slog.Default(),
		now:      time.Now,
		life:     life,
		cancel:   cancel,
		subs:     make(map[chan State]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load runs a load cycle. Calls made while a cycle is in flight join it and
// receive its result instead of starting another request. The shared cycle
// is not tied to any one caller's context: a caller whose ctx ends stops
// waiting and gets the fallback list, while the cycle carries on for the
// others until it settles or the loader is closed.
func (l *Loader) Load(ctx context.Context) Result {
	if l.isClosed() {
		return Result{Err: ErrClosed}
	}

	ch := l.group.DoChan("load", func() (v any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &cyclePanic{value: r}
			}
		}()
		return l.cycle(context.WithoutCancel(ctx)), nil
	})

	select {
	case r := <-ch:
		var p *cyclePanic
		if errors.As(r.Err, &p) {
			panic(p.value)
		}
		res := r.Val.(Result)
		return Result{Projects: portfolio.CloneProjects(res.Projects), Err: res.Err}
	case <-ctx.Done():
		kind := fetch.KindNetwork
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = fetch.KindTimeout
		}
		return Result{
			Projects: portfolio.CloneProjects(l.fallback),
			Err:      &fetch.Error{Kind: kind, Method: http.MethodGet, Path: Path, Err: ctx.Err()},
		}
	}
}

// cyclePanic carries a panic out of the shared cycle so it is re-raised in
// every waiting caller.
type cyclePanic struct{ value any }

func (p *cyclePanic) Error() string { return fmt.Sprintf("projects: load cycle panicked: %v", p.value) }

func (l *Loader) isClosed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

func (l *Loader) cycle(ctx context.Context) Result {
	if l.isClosed() {
		return Result{Err: ErrClosed}
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	detach := context.AfterFunc(l.life, stop)
	defer detach()

	l.update(func(s *State) {
		s.Loading = true
		s.LastError = nil
	})
	// Runs even if the attempt panics, so the view never sticks in loading.
	defer l.update(func(s *State) {
		s.Loading = false
		s.Cycles++
	})

	projects, err := l.attempt(ctx)
	if err != nil && l.life.Err() != nil {
		return Result{Err: ErrClosed}
	}
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to load live projects; using fallback data",
			"kind", fetch.KindOf(err).String(),
			"error", err,
			"fallback", len(l.fallback),
		)
		fb := portfolio.CloneProjects(l.fallback)
		l.update(func(s *State) {
			s.Projects = fb
			s.LastError = err
			s.Source = SourceFallback
			s.UpdatedAt = l.now()
		})
		return Result{Projects: fb, Err: err}
	}

	l.logger.DebugContext(ctx, "Loaded live projects", "count", len(projects))
	l.update(func(s *State) {
		s.Projects = projects
		s.LastError = nil
		s.Source = SourceLive
		s.UpdatedAt = l.now()
	})
	return Result{Projects: projects}
}

// attempt fetches and validates the live list.
func (l *Loader) attempt(ctx context.Context) ([]portfolio.Project, error) {
	resp, err := l.fetcher.Request(ctx, http.MethodGet, Path, nil)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := resp.Decode(&p); err != nil {
		return nil, err
	}
	return p.validate()
}

// update applies fn to the state and publishes the result, unless the loader
// has been closed.
func (l *Loader) update(fn func(*State)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	fn(&l.state)
	snap := l.snapshotLocked()
	for ch := range l.subs {
		offer(ch, snap)
	}
}

// Snapshot returns a copy of the current state.
func (l *Loader) Snapshot() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

func (l *Loader) snapshotLocked() State {
	s := l.state
	s.Projects = portfolio.CloneProjects(s.Projects)
	return s
}

// Loading reports whether a cycle is in flight.
func (l *Loader) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Loading
}

// LastError returns the failure of the most recent settled cycle, if any.
func (l *Loader) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.LastError
}

// Projects returns a copy of the working project set.
func (l *Loader) Projects() []portfolio.Project {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return portfolio.CloneProjects(l.state.Projects)
}

// Subscribe returns a channel that receives the latest state after every
// change, and a function that releases it. Slow readers only see the most
// recent state.
func (l *Loader) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	l.subs[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if _, ok := l.subs[ch]; ok {
				delete(l.subs, ch)
				close(ch)
			}
		})
	}
}

// Close tears the loader down. In-flight cycles are cancelled and their
// continuations no longer touch the state. Close is idempotent.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.state.Loading = false
	for ch := range l.subs {
		close(ch)
	}
	l.subs = nil
	l.mu.Unlock()
	l.cancel()
}

// offer delivers s without blocking, replacing an unread older state.
func offer(ch chan State, s State) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}
