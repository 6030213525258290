package curation

import (
	"errors"
	"fmt"
)

// Remote failure classes. Store implementations return errors matching one of
// these through errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrServer     = errors.New("server error")
	ErrNetwork    = errors.New("network error")
)

// FormError reports an invalid form field before any request is issued.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
