package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/pkordes/trip-catalog/internal/domain"
)

// APIError is returned for any response whose status the client did not
// expect. It unwraps to domain.ErrNotFound for 404 and to
// domain.ErrValidation for 400 and 422, so callers can use errors.Is.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Code       string // error.code from the body, when present
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap maps the status onto the domain sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrValidation
	}
	return nil
}

// maxMessageBytes caps how much of a non-JSON error body ends up in Message.
const maxMessageBytes = 256

// newAPIError reads the {"error":{"code","message"}} envelope when the body
// has one and falls back to the raw (truncated) body text otherwise.
func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, StatusCode: status}

	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && (env.Error.Code != "" || env.Error.Message != "") {
		e.Code = env.Error.Code
		e.Message = env.Error.Message
		return e
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxMessageBytes {
		cut := maxMessageBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "…"
	}
	e.Message = text
	return e
}
