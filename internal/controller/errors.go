package controller

import "errors"

var (
	ErrEmptyName = errors.New("empty item name")
	ErrDuplicate = errors.New("item already exists")
)

// User-facing messages.
const (
	MsgEmptyName     = "Please add an item"
	MsgDuplicate     = "Item already exists in the list"
	MsgConfirmRemove = "Are you sure?"
	MsgConfirmClear  = "Are you sure you want to clear all items?"
)

// ValidationError is a rejected submit. Nothing was mutated.
type ValidationError struct {
	Message string
	Name    string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
