package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/sports-tournament/internal/domain/user"
)

var (
	apiTracer = otel.Tracer("sports-tournament/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

type principalKey struct{}

// withPrincipal stores the authenticated caller and tags the active request span with it.
func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("enduser.id", p.UserID),
		attribute.String("enduser.role", string(p.Role)),
	)
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}

// startSpan opens a child span for handler and middleware steps. Requests
// without a parent span, such as the filtered probe routes, get a no-op span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// shouldCreateHTTPAPISpan keeps handlers and auth checks; helpers such as
// writeJSON and CORS ride on their caller's span.
func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.") || strings.HasPrefix(name, "httpapi.Require")
}
