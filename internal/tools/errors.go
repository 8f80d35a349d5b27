package tools

import (
	"errors"
	"fmt"

	"github.com/roelfdiedericks/slackclaw/internal/credential"
	"github.com/roelfdiedericks/slackclaw/internal/gateway"
	"github.com/roelfdiedericks/slackclaw/internal/selector"
	"github.com/roelfdiedericks/slackclaw/internal/session"
)

// Error codes carried in structured error payloads.
const (
	CodeMissingSession  = "missing_session_id"
	CodeInvalidSession  = "invalid_session_id"
	CodeEnvVarMissing   = "env_var_missing"
	CodeInvalidShape    = "invalid_credential_shape"
	CodeSessionRequired = "session_required"
	CodeGateway         = "gateway_error"
	CodeNotFound        = "not_found"
	CodeInvalidInput    = "invalid_input"
	CodeInternal        = "internal_error"
)

// Details attached to CodeNotFound.
const (
	DetailNoIMChannels     = "no_im_channels"
	DetailNoRecentActivity = "no_recent_activity"
)

// Error is the structured failure of a tool call.
type Error struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	GatewayCode string `json:"gateway_code,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e.GatewayCode != "":
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.GatewayCode)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return e.Code + ": " + e.Message
}

var (
	errSessionRequired = &Error{
		Code:    CodeSessionRequired,
		Message: "call create_session(bot_token) and pass session_id instead of bot_token",
	}
	errNoIMChannels = &Error{
		Code:    CodeNotFound,
		Message: "the bot has no direct message conversations",
		Detail:  DetailNoIMChannels,
	}
)

func invalidInput(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// AsError maps any error returned below the façade to its structured form.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var (
		toolErr *Error
		envErr  *credential.EnvVarMissingError
		gwErr   *gateway.Error
	)
	switch {
	case errors.As(err, &toolErr):
		return toolErr
	case errors.Is(err, session.ErrMissingHandle):
		return &Error{Code: CodeMissingSession, Message: "call create_session(bot_token) first"}
	case errors.Is(err, session.ErrInvalidHandle):
		return &Error{Code: CodeInvalidSession, Message: "create a new session via create_session"}
	case errors.As(err, &envErr):
		return &Error{
			Code:    CodeEnvVarMissing,
			Message: fmt.Sprintf("environment variable %s is not set", envErr.Name),
			Detail:  envErr.Name,
		}
	case errors.Is(err, credential.ErrInvalidShape):
		return &Error{Code: CodeInvalidShape, Message: credential.ErrInvalidShape.Error()}
	case errors.As(err, &gwErr):
		return &Error{Code: CodeGateway, Message: gwErr.Error(), GatewayCode: gwErr.Code}
	case errors.Is(err, selector.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: selector.ErrNotFound.Error(), Detail: DetailNoRecentActivity}
	default:
		return &Error{Code: CodeInternal, Message: err.Error()}
	}
}
