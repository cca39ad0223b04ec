// Package dto defines the API request/response types and the error taxonomy.
//
// Request types carry `json` and `path` struct tags for parameter binding and
// implement Validatable. Response payloads are wrapped in the uniform
// envelope {status, message, data} on success; failures serialize to
// {status, message, statusCode} or, for validation failures, {errors}.
//
// The dto package is the API contract layer: handlers and services build
// outcomes from these constructors instead of writing to the wire themselves.
package dto

import "net/http"

// FieldError is a per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorsEnvelope is the wire shape of validation and middleware failures.
type ErrorsEnvelope struct {
	Errors any `json:"errors"`
}

// ErrorWithStatus is an error carrying an HTTP status code. The response
// pipeline uses it to shape the wire response; anything else becomes a 500.
type ErrorWithStatus interface {
	Error() string
	StatusCode() int
}

// APIError is a failure descriptor: an HTTP status code, a short status
// label, and a human-readable message. Validation failures additionally
// carry per-field messages.
type APIError struct {
	statusCode int
	status     string
	message    string
	fields     []FieldError
	wrapped    error
}

// Failure creates a failure descriptor with the given status label, message
// and HTTP status code.
func Failure(status, message string, statusCode int) *APIError {
	return &APIError{statusCode: statusCode, status: status, message: message}
}

// ValidationFailed creates a 422 failure carrying per-field messages.
func ValidationFailed(fields []FieldError) *APIError {
	return &APIError{
		statusCode: http.StatusUnprocessableEntity,
		status:     "Unprocessable Entity",
		message:    "Validation failed",
		fields:     fields,
	}
}

// Forbidden creates a 403 failure. Used by the authorization middleware for
// missing, malformed or invalid bearer tokens.
func Forbidden(message string) *APIError {
	return &APIError{statusCode: http.StatusForbidden, status: "Forbidden", message: message}
}

// Internal creates a 500 failure.
func Internal(message string) *APIError {
	return &APIError{statusCode: http.StatusInternalServerError, status: "Server error", message: message}
}

// Wrap attaches an underlying cause, preserved for logging but never sent on
// the wire.
func (e *APIError) Wrap(err error) *APIError {
	e.wrapped = err
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.message
}

// StatusCode returns the HTTP status code.
func (e *APIError) StatusCode() int {
	return e.statusCode
}

// Status returns the short status label.
func (e *APIError) Status() string {
	return e.status
}

// Fields returns per-field validation messages, if any.
func (e *APIError) Fields() []FieldError {
	return e.fields
}

// Unwrap returns the wrapped cause if any.
func (e *APIError) Unwrap() error {
	return e.wrapped
}

// FailureEnvelope is the wire shape of non-validation failures.
type FailureEnvelope struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// Envelope returns the wire body for the error: per-field messages for
// validation failures, a bare {errors} for middleware rejections, the
// {status, message, statusCode} descriptor otherwise.
func (e *APIError) Envelope() any {
	if len(e.fields) > 0 {
		return ErrorsEnvelope{Errors: e.fields}
	}
	if e.statusCode == http.StatusForbidden {
		return ErrorsEnvelope{Errors: e.message}
	}
	return FailureEnvelope{Status: e.status, Message: e.message, StatusCode: e.statusCode}
}
