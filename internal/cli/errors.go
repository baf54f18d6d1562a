package cli

import (
	"errors"
	"fmt"

	"shoplist-cli/internal/controller"
)

var (
	errAborted        = errors.New("aborted")
	errDoctorIssues   = errors.New("doctor: list has issues")
	errNonInteractive = errors.New("confirmation required: pass --yes")
)

// invalidInputError is input rejected before anything was written.
type invalidInputError struct {
	msg string
}

func (e invalidInputError) Error() string { return e.msg }

func errInvalidInput(format string, args ...any) error {
	return invalidInputError{msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps a command error to the process exit status: 0 ok, 2 rejected
// input, 1 anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ie invalidInputError
	if controller.IsValidation(err) || errors.As(err, &ie) {
		return 2
	}
	return 1
}
