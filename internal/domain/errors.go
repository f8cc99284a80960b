package domain

import "errors"

// ErrNotFound is returned when the requested trip does not exist, either in
// the local collection or on the remote trips service (HTTP 404).
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when a trip or draft fails validation
// (e.g. missing title, malformed timestamp, end before start).
// The trips service reports it as HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
