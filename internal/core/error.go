package core

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrGameNotFound      = "GAME_NOT_FOUND"
	ErrInvalidSquareCode = "INVALID_SQUARE"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInternalError     = "INTERNAL_ERROR"
)

var (
	// ErrInvalidSquare is returned when a coordinate falls outside [0,7]
	ErrInvalidSquare = errors.New("invalid square")
	ErrNotFound      = errors.New("game not found")
)

// InvalidSquareError is the panic value raised by board primitives on
// out-of-range coordinates. It unwraps to ErrInvalidSquare.
type InvalidSquareError struct {
	Row, Col int
}

func (e *InvalidSquareError) Error() string {
	return fmt.Sprintf("invalid square (%d,%d)", e.Row, e.Col)
}

func (e *InvalidSquareError) Unwrap() error { return ErrInvalidSquare }
