// Package server implements the HTTP surface: routing, the authorization
// middleware, and the response/error pipeline.
package server

import (
	"context"
	"net/http"

	"github.com/lawwee/hng11-stage-two/internal/auth"
	"github.com/lawwee/hng11-stage-two/internal/server/dto"
	"github.com/lawwee/hng11-stage-two/internal/service"
)

// NewRouter creates and configures the HTTP router. Routes under /api and
// the membership mutation route require a bearer token; registration,
// login, the root greeting and the health check do not.
func NewRouter(svc *service.Service, tokens *auth.Tokens, issuer, version string) http.Handler {
	mux := http.NewServeMux()
	authn := Authenticate(tokens, issuer)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello World!"))
	})

	mux.Handle("GET /api/health", Wrap(healthHandler(version)))

	// Auth endpoints
	mux.Handle("POST /auth/register", Wrap(svc.Register))
	mux.Handle("POST /auth/login", Wrap(svc.Login))

	// User endpoints
	mux.Handle("GET /api/users/{id}", authn(WrapAuth(svc.GetUserDetails)))

	// Organisation endpoints
	mux.Handle("GET /api/organisations", authn(WrapAuth(svc.ListOrganisations)))
	mux.Handle("GET /api/organisations/{orgId}", authn(WrapAuth(svc.GetOrganisation)))
	mux.Handle("POST /api/organisations", authn(WrapAuth(svc.CreateOrganisation)))
	mux.Handle("POST /organisations/{orgId}/users", authn(WrapAuth(svc.AddUserToOrganisation)))

	// Unmatched routes
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusNotFound, dto.ErrorsEnvelope{Errors: "Resource not found"})
	})

	return RequestLogger(mux)
}

// healthHandler reports process liveness and the build version.
func healthHandler(version string) func(context.Context, *dto.HealthRequest) (*dto.Payload, error) {
	return func(ctx context.Context, _ *dto.HealthRequest) (*dto.Payload, error) {
		data := &dto.HealthData{Status: "ok", Version: version}
		return dto.Success("Service is healthy", data, http.StatusOK), nil
	}
}
