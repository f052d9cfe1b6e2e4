package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/vantasys/internal/api"
	"github.com/rileyhilliard/vantasys/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound   = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "CONFIG_INVALID"
	ErrCodeAgentUnreachable = "AGENT_UNREACHABLE"
	ErrCodeAuthFailed       = "AUTH_FAILED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAgentError       = "AGENT_ERROR"
	ErrCodeDecodeFailed     = "DECODE_FAILED"
	ErrCodeProcessFailed    = "PROCESS_FAILED"
	ErrCodeUnknown          = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	// HTTP replies carry the most specific signal, wherever they sit in the chain.
	var statusErr *api.StatusError
	if stderrors.As(err, &statusErr) {
		return statusErrorToJSON(err, statusErr)
	}

	var vErr *errors.Error
	if stderrors.As(err, &vErr) {
		return &JSONError{
			Code:       mapErrorCode(vErr.Code, vErr.Message),
			Message:    vErr.Message,
			Suggestion: vErr.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrFetch:
		return ErrCodeAgentUnreachable
	case errors.ErrDecode:
		return ErrCodeDecodeFailed
	case errors.ErrProcess:
		return ErrCodeProcessFailed
	}
	return ErrCodeUnknown
}

func statusErrorToJSON(err error, statusErr *api.StatusError) *JSONError {
	out := &JSONError{
		Code:    ErrCodeAgentError,
		Message: errors.Short(err),
		Details: map[string]interface{}{
			"status": statusErr.StatusCode,
			"path":   statusErr.Path,
		},
	}
	switch statusErr.StatusCode {
	case 401, 403:
		out.Code = ErrCodeAuthFailed
		out.Suggestion = "Pass the agent's key with --token or set VANTASYS_TOKEN"
	case 404:
		out.Code = ErrCodeNotFound
	}
	return out
}
