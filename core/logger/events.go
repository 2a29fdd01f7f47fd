package logger

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// ratioSampler admits num out of every den debug events.
type ratioSampler struct {
	num     atomic.Int64
	den     atomic.Int64
	counter atomic.Int64
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set updates the sampling ratio.
func (s *ratioSampler) Set(num, den int) {
	if num <= 0 {
		num = 1
	}
	if den <= 0 {
		den = 1
	}
	s.num.Store(int64(num))
	s.den.Store(int64(den))
}

func (s *ratioSampler) allow() bool {
	den := s.den.Load()
	if den <= 1 {
		return true
	}
	n := s.counter.Add(1)
	return (n-1)%den < s.num.Load()
}

// ShouldSampleDebug reports whether a debug-only event should be emitted.
func ShouldSampleDebug() bool {
	return debugSampler.allow()
}

// Background returns a fresh context for log enrichment.
func Background() context.Context {
	return context.Background()
}

// Component returns a child logger tagged with the given component name.
func Component(name string) *slog.Logger {
	if L == nil {
		return slog.Default()
	}
	return L.With("component", name)
}

// LogEvent emits an event through the provided component logger,
// enriching it with context metadata (rid, update/user/chat ids,
// handler) when present. args are loose slog key/value pairs.
func LogEvent(ctx context.Context, log *slog.Logger, level slog.Level, event string, args ...any) {
	if log == nil {
		log = FromContext(ctx)
	}
	enriched := make([]any, 0, len(args)+10)
	if rid := RIDFrom(ctx); rid != "" {
		enriched = append(enriched, "rid", rid)
	}
	if id := UpdateIDFrom(ctx); id != 0 {
		enriched = append(enriched, "update_id", id)
	}
	if id := UserIDFrom(ctx); id != 0 {
		enriched = append(enriched, "user_id", id)
	}
	if id := ChatIDFrom(ctx); id != 0 {
		enriched = append(enriched, "chat_id", id)
	}
	if h := HandlerFrom(ctx); h != "" {
		enriched = append(enriched, "handler", h)
	}
	enriched = append(enriched, args...)
	log.Log(ctx, level, event, enriched...)
}

// Debug emits a sampled debug event for the component logger.
func Debug(ctx context.Context, log *slog.Logger, event string, args ...any) {
	if !ShouldSampleDebug() {
		return
	}
	LogEvent(ctx, log, slog.LevelDebug, event, args...)
}

// Info emits an info event for the component logger.
func Info(ctx context.Context, log *slog.Logger, event string, args ...any) {
	LogEvent(ctx, log, slog.LevelInfo, event, args...)
}

// Warn emits a warning event for the component logger.
func Warn(ctx context.Context, log *slog.Logger, event string, args ...any) {
	LogEvent(ctx, log, slog.LevelWarn, event, args...)
}

// Error emits an error event for the component logger.
func Error(ctx context.Context, log *slog.Logger, event string, args ...any) {
	LogEvent(ctx, log, slog.LevelError, event, args...)
}
