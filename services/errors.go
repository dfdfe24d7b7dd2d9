package services

import (
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound       = errors.New("not_found")
	ErrDuplicateEntry = errors.New("duplicate_entry")
	ErrInvalidStatus  = errors.New("invalid_status")

	// generated serial/entry numbers kept colliding; an internal fault,
	// not a caller conflict
	ErrCodeAllocation = errors.New("code_allocation_failed")
)

// ValidationError carries field-level detail for malformed input. Returned
// before any mutation happens.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// isDuplicateErr detects unique-constraint violations. Typed check for the
// mysql driver, substring fallback for other drivers (sqlite in tests).
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint")
}
