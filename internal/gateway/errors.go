package gateway

import (
	"errors"
	"fmt"
)

// Codes used when the platform did not supply one.
const (
	CodeRateLimited   = "ratelimited"
	CodeRequestFailed = "request_failed"
)

// Error is a failed platform call. Code is the platform's own error code
// (e.g. "channel_not_found").
type Error struct {
	Op   string // gateway operation, e.g. "conversations.history"
	Code string
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Code {
		return fmt.Sprintf("%s: %s (%v)", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the platform code carried by err, or "" when err is not
// a gateway error.
func ErrorCode(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Code
	}
	return ""
}
