// Package reqctx provides request context utilities for passing the
// resolved principal and request metadata between pipeline stages.
package reqctx

import (
	"context"
	"net/http"
	"strings"
)

// Context keys for request metadata.
type contextKey string

const (
	keyPrincipal contextKey = "principal"
	keyRequestID contextKey = "requestID"
	keyClientIP  contextKey = "clientIP"
)

// WithPrincipal attaches the authenticated principal's user identifier to
// the context. Set once by the authorization middleware on acceptance.
func WithPrincipal(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, keyPrincipal, userID)
}

// Principal extracts the authenticated principal's user identifier from the
// context, or "" when the request was not authenticated.
func Principal(ctx context.Context) string {
	if v, ok := ctx.Value(keyPrincipal).(string); ok {
		return v
	}
	return ""
}

// WithRequestID attaches the request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestID extracts the request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithClientIP attaches the client IP to the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, keyClientIP, ip)
}

// ClientIP extracts the client IP from the context.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(keyClientIP).(string); ok {
		return v
	}
	return ""
}

// GetClientIP extracts the client IP from an HTTP request, checking
// X-Forwarded-For and X-Real-IP for requests arriving through the reverse
// proxy.
func GetClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs: "client, proxy1, proxy2".
	// The leftmost IP is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	// Handle IPv6 addresses like [::1]:8080.
	if strings.HasPrefix(addr, "[") {
		if host, _, found := strings.Cut(addr, "]:"); found {
			return host[1:]
		}
		return strings.Trim(addr, "[]")
	}
	if host, _, found := strings.Cut(addr, ":"); found {
		return host
	}
	return addr
}
