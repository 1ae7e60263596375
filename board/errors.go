package board

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBoardRepr is returned when a board is built from anything
	// other than exactly 16 values.
	ErrInvalidBoardRepr = errors.New("invalid board representation")
	// ErrInvalidTileValue is wrapped by every InvalidTileValueError.
	ErrInvalidTileValue = errors.New("invalid tile value")
)

// InvalidTileValueError reports a value that is neither 0 nor a power of
// two between 2 and MaxTileValue.
type InvalidTileValueError struct {
	Index int
	Value int
}

func (e *InvalidTileValueError) Error() string {
	return fmt.Sprintf("invalid tile value %d at index %d", e.Value, e.Index)
}

func (e *InvalidTileValueError) Unwrap() error {
	return ErrInvalidTileValue
}
