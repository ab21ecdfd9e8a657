package utils

import (
	"errors"
	"fmt"
)

// WrapError wraps an error with additional context
func WrapError(err error, msg string) error {
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// TimeoutError creates a timeout error
func TimeoutError(operation string) error {
	return fmt.Errorf("%s: operation timed out", operation)
}

// RecoverError converts a recovered panic value into an error. It returns nil
// when r is nil so it can be used directly on the result of recover().
func RecoverError(r interface{}, operation string) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return WrapError(err, operation)
	}
	return fmt.Errorf("%s: %v", operation, r)
}
