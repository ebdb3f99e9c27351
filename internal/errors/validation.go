package errors

import "net/http"

// ErrValidation marks input rejected before it reaches the store: empty
// titles, malformed dates, unknown priorities or statuses.
var ErrValidation = &Exception{
	Message:    "validation failed",
	StatusCode: http.StatusBadRequest,
}
