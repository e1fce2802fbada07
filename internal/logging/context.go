package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	recipeKey ctxKey = iota
	entityKey
	agentKey
)

// WithRecipe returns a context with the recipe name set.
func WithRecipe(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, recipeKey, name)
}

// WithEntity returns a context with the diagram/content entity id set.
func WithEntity(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, entityKey, id)
}

// WithAgent returns a context with the producing agent id set.
func WithAgent(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, agentKey, id)
}

// Recipe extracts the recipe name from the context, or "" if absent.
func Recipe(ctx context.Context) string {
	v, _ := ctx.Value(recipeKey).(string)
	return v
}

// Entity extracts the entity id from the context, or "" if absent.
func Entity(ctx context.Context) string {
	v, _ := ctx.Value(entityKey).(string)
	return v
}

// Agent extracts the agent id from the context, or "" if absent.
func Agent(ctx context.Context) string {
	v, _ := ctx.Value(agentKey).(string)
	return v
}

// CorrelationHandler wraps an slog.Handler, automatically injecting
// recipe/entity/agent correlation ids from the context into every log
// record, so callers can use logger.InfoContext(ctx, ...) and the ids
// appear without manual plumbing.
type CorrelationHandler struct {
	inner slog.Handler
}

// NewCorrelationHandler wraps the given handler.
func NewCorrelationHandler(inner slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{inner: inner}
}

func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	if v := Recipe(ctx); v != "" {
		r.AddAttrs(slog.String("recipe", v))
	}
	if v := Entity(ctx); v != "" {
		r.AddAttrs(slog.String("entity_id", v))
	}
	if v := Agent(ctx); v != "" {
		r.AddAttrs(slog.String("agent_id", v))
	}
	return h.inner.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithGroup(name)}
}
