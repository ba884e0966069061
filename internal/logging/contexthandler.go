package logging

import (
	"context"
	"log/slog"
)

// Keys of the scene attributes attached to every record.
const (
	KeySession = "session"
	KeySource  = "trajectory.source"
	KeySamples = "trajectory.samples"
)

// ContextProvider returns the attributes describing what the globe is showing
// right now. It is called once per record.
type ContextProvider func() []slog.Attr

// SessionAttr tags a record with the run's session id.
func SessionAttr(id string) slog.Attr {
	return slog.String(KeySession, id)
}

// SceneAttrs describes the trajectory currently on the globe.
func SceneAttrs(source string, samples int) []slog.Attr {
	return []slog.Attr{
		slog.String(KeySource, source),
		slog.Int(KeySamples, samples),
	}
}

// ContextHandler wraps another handler and stamps each record with the
// scene context. Attributes with an empty key are dropped.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler creates a handler that adds the provider's attributes to
// each record.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{
		inner:    inner,
		provider: provider,
	}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider == nil {
		return h.inner.Handle(ctx, r)
	}
	for _, a := range h.provider() {
		if a.Key != "" {
			r.AddAttrs(a)
		}
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}
