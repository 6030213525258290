package devserver

import (
	"errors"
	"net/http"
)

// httpError is a failure with the status and detail sent to the client.
type httpError struct {
	status int
	detail string
}

func (e *httpError) Error() string {
	return e.detail
}

func notFound(detail string) error {
	return &httpError{status: http.StatusNotFound, detail: detail}
}

func badRequest(detail string) error {
	return &httpError{status: http.StatusBadRequest, detail: detail}
}

func forbidden(detail string) error {
	return &httpError{status: http.StatusForbidden, detail: detail}
}

func statusOf(err error) (int, string) {
	var he *httpError
	if errors.As(err, &he) {
		return he.status, he.detail
	}
	return http.StatusInternalServerError, "Internal server error"
}
