// Package apperrors holds the typed errors shared by the game core and its adapters.
package apperrors

import "errors"

// Error codes carried on the wire inside error messages.
const (
	CodeUnknown            = 1000
	CodeInvalidMessage     = 1001
	CodeRateLimited        = 1002
	CodeInvalidDimensions  = 3001
	CodeInvalidDirection   = 3002
	CodeRecordsUnavailable = 4001
)

// GameError is an error with a stable numeric code.
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrInvalidMessage     = &GameError{Code: CodeInvalidMessage, Message: "invalid message"}
	ErrRateLimited        = &GameError{Code: CodeRateLimited, Message: "too many messages, slow down"}
	ErrInvalidDimensions  = &GameError{Code: CodeInvalidDimensions, Message: "maze dimensions must be positive"}
	ErrInvalidDirection   = &GameError{Code: CodeInvalidDirection, Message: "unknown direction"}
	ErrRecordsUnavailable = &GameError{Code: CodeRecordsUnavailable, Message: "escape records are not available"}
)

// CodeOf returns the code of the first GameError in err's chain, or CodeUnknown.
func CodeOf(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return CodeUnknown
}
