package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrTrailingData reports a request body with more than one JSON value.
var ErrTrailingData = errors.New("unexpected data after JSON body")

// Failure is the error envelope returned by the API.
type Failure struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail sends a failure envelope. The details carry the wrapped error chain.
func Fail(w http.ResponseWriter, status int, err error) {
	body := Failure{Error: http.StatusText(status), Details: []string{}}
	if err != nil {
		body.Error = err.Error()
		body.Details = Chain(err)
	}
	JSON(w, status, body)
}

// DecodeJSON decodes a JSON request body into target. Bodies larger than
// limit bytes are rejected when limit is positive, and the body must hold a
// single JSON value.
func DecodeJSON(w http.ResponseWriter, r *http.Request, limit int64, target any) error {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(target); err != nil {
		return err
	}
	_, err := dec.Token()
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case errors.As(err, new(*http.MaxBytesError)):
		return err
	}
	return ErrTrailingData
}
