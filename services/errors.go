package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Error kinds returned by LifecycleManager. Callers classify with errors.Is.
var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced room, checkout, housekeeper or task that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a precondition on current entity state that does not hold.
	ErrConflict = errors.New("state conflict")
)

func validationError(field, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// isUniqueViolation recognises duplicate key errors whether or not the dialector
// translated them into gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
