package philofeed

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	ErrValidation       = errors.New("validation failed")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrCategoryMismatch = errors.New("record category does not match target category")
	ErrDuplicateID      = errors.New("duplicate id in category")
	ErrUnknownSection   = errors.New("unknown section")

	// ErrSlotEmpty is returned by a Slot that has never been written.
	ErrSlotEmpty = errors.New("slot is empty")

	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")
	ErrFileRead     = errors.New("file read failed")
)

// ValidationError reports which submission fields were rejected.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return ErrValidation.Error() + ": " + strings.Join(keys, ", ")
}

// Is makes errors.Is(err, ErrValidation) true for any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the message recorded for name, or "" if it passed.
func (e *ValidationError) Field(name string) string {
	if err, ok := e.Fields[name]; ok && err != nil {
		return err.Error()
	}
	return ""
}
