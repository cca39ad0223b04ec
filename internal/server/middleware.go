package server

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lawwee/hng11-stage-two/internal/auth"
	"github.com/lawwee/hng11-stage-two/internal/server/dto"
	"github.com/lawwee/hng11-stage-two/internal/server/reqctx"
)

// Authenticate returns middleware that verifies the bearer token on every
// request and resolves the calling principal before any handler runs.
//
// Rejections are terminal and always 403: missing header, missing token
// segment, any verification failure, or an issuer claim that does not match
// the configured issuer. The verifier establishes cryptographic validity
// only; the issuer match is the policy check layered here.
func Authenticate(tokens *auth.Tokens, issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				writeResult(ctx, w, nil, dto.Forbidden("Unauthorized"))
				return
			}

			parts := strings.Fields(header)
			if len(parts) < 2 {
				writeResult(ctx, w, nil, dto.Forbidden("Unauthorized"))
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				writeResult(ctx, w, nil, dto.Forbidden("Not Authenticated").Wrap(err))
				return
			}

			if claims.Issuer != issuer {
				writeResult(ctx, w, nil, dto.Forbidden("Token is invalid"))
				return
			}

			ctx = reqctx.WithPrincipal(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger returns middleware that tags each request with an ID and
// logs method, path, status and duration on completion.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		ctx = reqctx.WithRequestID(ctx, uuid.NewString())
		ctx = reqctx.WithClientIP(ctx, reqctx.GetClientIP(r))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.InfoContext(ctx, "Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"ip", reqctx.ClientIP(ctx),
			"request_id", reqctx.RequestID(ctx),
		)
	})
}
