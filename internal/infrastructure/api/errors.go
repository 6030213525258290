package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// Kind classifies a failed server interaction.
type Kind string

const (
	// KindValidation covers 4xx responses other than 404.
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server"
	// KindNetwork covers transport failures and undecodable responses.
	KindNetwork Kind = "network"
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrValidation = curation.ErrValidation
	ErrNotFound   = curation.ErrNotFound
	ErrServer     = curation.ErrServer
	ErrNetwork    = curation.ErrNetwork
)

// Error is returned by every Client method.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	// Message is the server-provided message when there was one.
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindServer:
		return ErrServer
	default:
		return ErrNetwork
	}
}

// Message returns the text to show a user for err: the server's message when
// the error came from the client, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

func newStatusError(op string, status int, body *errorBody) *Error {
	msg := body.message()
	if msg == "" {
		msg = fmt.Sprintf("%s failed: status %d", op, status)
	}
	return &Error{Op: op, Kind: kindForStatus(status), Status: status, Message: msg}
}

func newNetworkError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNetwork, Message: err.Error(), Err: err}
}

// errorBody is the decoded body of a rejected request. It understands
// {"detail": "..."}, the list form {"detail": [{"msg": "..."}]}, and
// {"message"|"error": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (b *errorBody) message() string {
	if b == nil {
		return ""
	}
	if len(b.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(b.Detail, &detail); err == nil && detail != "" {
			return detail
		}
		var list []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(b.Detail, &list); err == nil {
			msgs := make([]string, 0, len(list))
			for _, item := range list {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
