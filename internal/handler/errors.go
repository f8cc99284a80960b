package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the message because the handler knows what was being
// looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}}
}

// requestBody returns an ErrorResponse for a request rejected before reaching
// the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}}
}

func internalBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: title is required" → "title is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 && i+len(marker) < len(msg) {
		return msg[i+len(marker):]
	}
	return msg
}

// writeJSON encodes v with the given status. Encoding errors are logged; the
// status line has already been sent by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("handler: encode response", "error", err)
	}
}
