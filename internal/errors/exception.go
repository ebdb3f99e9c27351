package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// PublicMessage is what adapters show users: the full wrapped text for client
// errors, only the sentinel message for server-side failures.
func PublicMessage(err error) string {
	if StatusCode(err) < http.StatusInternalServerError {
		return err.Error()
	}
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
