package fetch

import (
	"context"
	"log/slog"
	"time"
)

// RequestRecord is emitted before a request leaves the client.
type RequestRecord struct {
	ID     string
	Method string
	Path   string
	URL    string
}

// ResponseRecord is emitted once a request has completed or failed.
type ResponseRecord struct {
	ID         string
	Method     string
	Path       string
	StatusCode int // 0 when no response was received
	Duration   time.Duration
	Err        error
}

// Observer receives diagnostic records. Implementations must not block;
// they are called inline on the request path.
type Observer interface {
	BeforeRequest(ctx context.Context, rec RequestRecord)
	AfterResponse(ctx context.Context, rec ResponseRecord)
}

// LogObserver writes diagnostic records to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an observer logging to l, or to slog.Default when l is nil.
func NewLogObserver(l *slog.Logger) *LogObserver {
	if l == nil {
		l = slog.Default()
	}
	return &LogObserver{logger: l}
}

func (o *LogObserver) BeforeRequest(ctx context.Context, rec RequestRecord) {
	o.logger.DebugContext(ctx, "API request", "id", rec.ID, "method", rec.Method, "path", rec.Path)
}

func (o *LogObserver) AfterResponse(ctx context.Context, rec ResponseRecord) {
	if rec.Err != nil {
		o.logger.WarnContext(ctx, "API response error",
			"id", rec.ID,
			"method", rec.Method,
			"path", rec.Path,
			"status", rec.StatusCode,
			"kind", KindOf(rec.Err).String(),
			"duration", rec.Duration,
			"error", rec.Err,
		)
		return
	}
	o.logger.DebugContext(ctx, "API response",
		"id", rec.ID,
		"method", rec.Method,
		"path", rec.Path,
		"status", rec.StatusCode,
		"duration", rec.Duration,
	)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnRequest  func(RequestRecord)
	OnResponse func(ResponseRecord)
}

func (f ObserverFuncs) BeforeRequest(_ context.Context, rec RequestRecord) {
	if f.OnRequest != nil {
		f.OnRequest(rec)
	}
}

func (f ObserverFuncs) AfterResponse(_ context.Context, rec ResponseRecord) {
	if f.OnResponse != nil {
		f.OnResponse(rec)
	}
}
