package http

import (
	"context"
	"log/slog"

	"github.com/example/academic-scheduler/internal/application"
	"github.com/example/academic-scheduler/internal/logging"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	entityIDContextKey  contextKey = "entity_id"
)

// ContextWithPrincipal returns a derived context containing the requesting principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the requesting principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithEntityID injects the entity identifier resolved from the request path.
func ContextWithEntityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, entityIDContextKey, id)
}

// EntityIDFromContext extracts an entity identifier previously associated with the context.
func EntityIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(entityIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request-scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request-scoped logger, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
