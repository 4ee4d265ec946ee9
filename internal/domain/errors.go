package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters is matched by every parameter validation failure
var ErrInvalidParameters = errors.New("invalid plan parameters")

// ValidationError describes the offending field of a rejected plan
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidParameters, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidParameters) match any ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParameters
}
