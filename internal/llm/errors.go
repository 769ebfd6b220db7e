package llm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreachable covers connection refused, DNS failures and timeouts.
	ErrUnreachable = errors.New("llm backend unreachable")
	// ErrProtocol means the backend answered 2xx with a body we cannot use.
	ErrProtocol      = errors.New("llm protocol error")
	ErrEgressBlocked = errors.New("egress blocked")
)

// StatusError is returned for any non-2xx reply from the backend.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("llm backend error: %s", e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += " - " + body
	}
	return msg
}
