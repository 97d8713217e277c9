package errors

import (
	"errors"
	"strings"
)

var (
	ErrInvalid     = errors.New("invalid request")
	ErrInvalidFile = errors.New("invalid file")
	ErrUnavailable = errors.New("service unavailable")
	ErrUpstream    = errors.New("upstream failure")
	ErrInternal    = errors.New("internal")
)

// Message returns err's text with the sentinel kind prefix removed. Response
// bodies carry this form; the kind itself is routing information for status
// mapping and logs, not for clients.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, kind := range []error{ErrInvalidFile, ErrInvalid, ErrUnavailable, ErrUpstream, ErrInternal} {
		if trimmed := strings.TrimPrefix(msg, kind.Error()+": "); trimmed != msg {
			return trimmed
		}
	}
	return msg
}

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid) || errors.Is(err, ErrInvalidFile)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
