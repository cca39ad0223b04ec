// Provides the wrappers that adapt service operations to http.Handler and
// normalize every outcome into the wire envelope.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/lawwee/hng11-stage-two/internal/server/dto"
	"github.com/lawwee/hng11-stage-two/internal/server/reqctx"
)

// Wrap adapts an unauthenticated operation to an http.Handler.
// The function must have signature: func(context.Context, *In) (*dto.Payload, error)
// where In can be unmarshalled from JSON. Path parameters can be extracted
// by tagging struct fields with `path:"name"`. *In must implement
// dto.Validatable.
func Wrap[In any, PtrIn interface {
	*In
	dto.Validatable
}](fn func(context.Context, PtrIn) (*dto.Payload, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input) {
			return
		}
		populatePathParams(r, input)

		if err := PtrIn(input).Validate(); err != nil {
			writeResult(ctx, w, nil, err)
			return
		}

		payload, err := fn(ctx, PtrIn(input))
		writeResult(ctx, w, payload, err)
	})
}

// WrapAuth adapts an authenticated operation to an http.Handler. The
// resolved principal is read from the request context, where the
// authorization middleware placed it, and passed explicitly into the
// operation.
// The function must have signature:
// func(context.Context, principal string, *In) (*dto.Payload, error).
func WrapAuth[In any, PtrIn interface {
	*In
	dto.Validatable
}](fn func(context.Context, string, PtrIn) (*dto.Payload, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		principal := reqctx.Principal(ctx)
		if principal == "" {
			// Only reachable when the route is miswired without the
			// authorization middleware.
			writeResult(ctx, w, nil, dto.Forbidden("Unauthorized"))
			return
		}

		input := new(In)
		if !readAndDecodeBody(ctx, w, r, input) {
			return
		}
		populatePathParams(r, input)

		if err := PtrIn(input).Validate(); err != nil {
			writeResult(ctx, w, nil, err)
			return
		}

		payload, err := fn(ctx, principal, PtrIn(input))
		writeResult(ctx, w, payload, err)
	})
}

// readAndDecodeBody reads the request body and decodes JSON into input.
// Returns false if an error occurred and was written to the response.
func readAndDecodeBody[In any](ctx context.Context, w http.ResponseWriter, r *http.Request, input *In) bool {
	body, err := io.ReadAll(r.Body)
	if err2 := r.Body.Close(); err == nil {
		err = err2
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read request body", "err", err)
		writeResult(ctx, w, nil, dto.Failure("Bad Request", "Failed to read request body", http.StatusBadRequest))
		return false
	}

	if len(body) > 0 {
		d := json.NewDecoder(bytes.NewReader(body))
		d.DisallowUnknownFields()
		if err := d.Decode(input); err != nil {
			slog.ErrorContext(ctx, "Failed to decode request body", "err", err)
			writeResult(ctx, w, nil, dto.Failure("Bad Request", "Invalid request body", http.StatusBadRequest))
			return false
		}
	}
	return true
}

// populatePathParams extracts path parameters from the request and
// populates struct fields tagged with `path:"paramName"`.
func populatePathParams(r *http.Request, input any) {
	val := reflect.ValueOf(input)
	if val.Kind() != reflect.Pointer {
		return
	}
	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return
	}

	typ := elem.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag := field.Tag.Get("path")
		if tag == "" {
			continue
		}
		paramValue := r.PathValue(tag)
		if paramValue == "" {
			continue
		}
		if field.Type.Kind() == reflect.String {
			elem.Field(i).SetString(paramValue)
		}
	}
}

// writeResult normalizes a service outcome into the wire response. It is
// the terminal error handler: anything that is not an APIError becomes an
// opaque 500.
func writeResult(ctx context.Context, w http.ResponseWriter, payload *dto.Payload, err error) {
	if err != nil {
		var apiErr *dto.APIError
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode() >= http.StatusInternalServerError {
				slog.ErrorContext(ctx, "Request failed", "statusCode", apiErr.StatusCode(), "err", err, "cause", apiErr.Unwrap())
			} else {
				slog.InfoContext(ctx, "Request rejected", "statusCode", apiErr.StatusCode(), "err", err)
			}
			writeJSON(ctx, w, apiErr.StatusCode(), apiErr.Envelope())
			return
		}
		slog.ErrorContext(ctx, "Unhandled error", "err", err)
		writeJSON(ctx, w, http.StatusInternalServerError, dto.FailureEnvelope{
			Status:     "Server error",
			Message:    "Something went wrong",
			StatusCode: http.StatusInternalServerError,
		})
		return
	}

	writeJSON(ctx, w, payload.StatusCode(), payload)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "err", err)
	}
}
