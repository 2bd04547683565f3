// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors mapped to client-facing status codes.
var (
	ErrValidation  = errors.New("validation failed")
	ErrTooLarge    = errors.New("request body too large")
	ErrUnavailable = errors.New("service unavailable")
	ErrUpstream    = errors.New("upstream service failed")
)

// StatusFor maps an error to the HTTP status reported to the client.
func StatusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a failure envelope with the mapped status.
func RespondError(w http.ResponseWriter, err error) {
	Fail(w, StatusFor(err), err)
}

// Chain lists the messages of err and every error it wraps, outermost first.
func Chain(err error) []string {
	var out []string
	var walk func(error)
	walk = func(e error) {
		for e != nil {
			out = append(out, e.Error())
			if multi, ok := e.(interface{ Unwrap() []error }); ok {
				for _, inner := range multi.Unwrap() {
					walk(inner)
				}
				return
			}
			e = errors.Unwrap(e)
		}
	}
	walk(err)
	return out
}
