// Package view runs one websocket session per page view. A session owns the
// view's section tracker and project loader: scroll measurements come in,
// active-section and project updates go out, and closing the socket
// releases both.
package view

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/folio/internal/portfolio"
	"github.com/ziadkadry99/folio/internal/projects"
	"github.com/ziadkadry99/folio/internal/tracker"
)

// Path is the websocket endpoint.
const Path = "/ws/view"

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// Handler accepts view sessions.
type Handler struct {
	fetcher  projects.Fetcher
	fallback []portfolio.Project
	logger   *slog.Logger
	upgrader websocket.Upgrader
	sessions atomic.Int64
}

// NewHandler returns a handler whose sessions load projects through fetcher
// and fall back to fallback.
func NewHandler(fetcher projects.Fetcher, fallback []portfolio.Project, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		fetcher:  fetcher,
		fallback: portfolio.CloneProjects(fallback),
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts the view channel on the given router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get(Path, h.ServeHTTP)
}

// Sessions returns the number of mounted views.
func (h *Handler) Sessions() int {
	return int(h.sessions.Load())
}

// ServeHTTP upgrades the request and runs the session until the socket closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	s := h.mount(r.Context(), conn)
	defer h.unmount(s)
	s.run()
}

// session is the server side of one page view.
type session struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	loader *projects.Loader

	writeMu sync.Mutex
	wg      sync.WaitGroup

	mu      sync.Mutex
	tracker *tracker.Tracker
	sub     *tracker.Subscription
}

func (h *Handler) mount(ctx context.Context, conn *websocket.Conn) *session {
	id := uuid.NewString()
	logger := h.logger.With("view", id)
	ctx, cancel := context.WithCancel(ctx)
	s := &session{
		id:     id,
		conn:   conn,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		loader: projects.NewLoader(h.fetcher, h.fallback, projects.WithLogger(logger)),
	}
	h.sessions.Add(1)
	logger.DebugContext(ctx, "View mounted")

	states, _ := s.loader.Subscribe()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Ends when the loader is closed.
		for st := range states {
			s.write(projectsMessage(st))
		}
	}()
	s.load()
	return s
}

func (h *Handler) unmount(s *session) {
	s.cancel()
	s.mu.Lock()
	if s.sub != nil {
		s.sub.Close()
	}
	s.mu.Unlock()
	s.loader.Close()
	s.wg.Wait()
	s.conn.Close()
	h.sessions.Add(-1)
	s.logger.Debug("View unmounted")
}

// load starts a project load cycle in the background.
func (s *session) load() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loader.Load(s.ctx)
	}()
}

func (s *session) run() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Websocket read failed", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError("invalid message format")
			continue
		}

		switch msg.Type {
		case TypeLayout:
			s.layout(msg)
		case TypeScroll:
			s.scroll(msg)
		case TypeRetry:
			s.load()
		default:
			s.sendError("unknown message type: " + msg.Type)
		}
	}
}

// layout registers a fresh tracker for the measured sections. A page that
// re-measures (resize, new project cards) gets a new tracker.
func (s *session) layout(msg ClientMessage) {
	tr := tracker.New()
	if err := tr.Register(msg.Sections); err != nil {
		s.sendError(err.Error())
		return
	}
	tr.SetDocumentHeight(msg.DocumentHeight)
	tr.OnScroll(msg.ScrollY, msg.ViewportHeight)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}
	if s.sub != nil {
		s.sub.Close()
	}
	s.tracker = tr
	s.sub = tr.Subscribe()

	sub := s.sub
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		var last ActiveMessage
		for snap := range sub.C {
			m := activeMessage(snap)
			if m == last {
				continue
			}
			last = m
			s.write(m)
		}
	}()
}

func (s *session) scroll(msg ClientMessage) {
	s.mu.Lock()
	tr := s.tracker
	s.mu.Unlock()
	if tr == nil {
		s.sendError(tracker.ErrNotRegistered.Error())
		return
	}
	if msg.DocumentHeight > 0 {
		tr.SetDocumentHeight(msg.DocumentHeight)
	}
	tr.OnScroll(msg.ScrollY, msg.ViewportHeight)
}

func (s *session) sendError(text string) {
	s.write(ErrorMessage{Type: TypeError, Error: text})
}

// write serializes writers; gorilla connections allow one at a time.
func (s *session) write(v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		s.logger.Debug("Websocket write failed", "error", err)
	}
}
