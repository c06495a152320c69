package ws

import (
	"fmt"
)

func ActionNotFound(action ActionName) ActionNotFoundError {
	return ActionNotFoundError{Action: action}
}

type ActionNotFoundError struct {
	Action ActionName
}

func (e ActionNotFoundError) Error() string {
	return fmt.Sprintf("unknown action: %s", e.Action)
}

type InvalidEncodingError struct {
	Expected string
	Actual   string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("expected encoding %s, got %s", e.Expected, e.Actual)
}

func InvalidEncoding(expected string, actual string) error {
	return &InvalidEncodingError{
		Expected: expected,
		Actual:   actual,
	}
}
