package errors

import "net/http"

// ErrPersistence marks a write or read the store rejected.
var ErrPersistence = &Exception{
	Message:    "persistence failure",
	StatusCode: http.StatusInternalServerError,
}

var ErrMalformedPatch = &Exception{
	Message:    "malformed patch",
	StatusCode: http.StatusBadRequest,
}
