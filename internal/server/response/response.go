// Package response writes the JSON bodies returned by the HTTP API.
// Successful responses carry the payload itself; failures carry an
// "error" message and, in development, a "details" string.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/carriermap/pkg/errors"
)

// Error is the body of every failed request.
type Error struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent (best effort)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200 status.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Fail writes an error body.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Error{Error: message})
}

// FailWithDetails writes an error body, adding err's text when verbose is
// set. Production servers pass verbose=false.
func FailWithDetails(w http.ResponseWriter, status int, message string, err error, verbose bool) {
	body := Error{Error: message}
	if verbose && err != nil {
		body.Details = err.Error()
	}
	JSON(w, status, body)
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, message)
}

// RouteNotFound writes the 404 for unknown routes.
func RouteNotFound(w http.ResponseWriter) {
	NotFound(w, "Route not found")
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter) {
	Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// RateLimited writes a 429 error response.
func RateLimited(w http.ResponseWriter) {
	Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later")
}

// InternalError writes a 500 error response.
func InternalError(w http.ResponseWriter, message string, err error, verbose bool) {
	if message == "" {
		message = "Internal server error"
	}
	FailWithDetails(w, http.StatusInternalServerError, message, err, verbose)
}

// StatusFor maps typed errors to HTTP statuses: validation failures 400,
// timeouts 504, missing resources 404, everything else 500.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.IsValidationError(err):
		return http.StatusBadRequest
	case errors.IsTimeout(err):
		return http.StatusGatewayTimeout
	case errors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
