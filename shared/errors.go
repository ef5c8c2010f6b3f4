package shared

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSolution  = errors.New("invalid solution")
	ErrSolutionNotFound = errors.New("solution not found")
)

// LengthError is returned when a fixed-size argument has the wrong length.
// It signals a malformed call, not a failed verification.
type LengthError struct {
	Param    string
	Expected int
	Given    int
}

func (err LengthError) Error() string {
	return fmt.Sprintf("invalid `%v` length; expected: %d, given: %d", err.Param, err.Expected, err.Given)
}

// CheckLength returns a LengthError if len(b) != expected.
func CheckLength(param string, b []byte, expected int) error {
	if len(b) != expected {
		return LengthError{Param: param, Expected: expected, Given: len(b)}
	}
	return nil
}
