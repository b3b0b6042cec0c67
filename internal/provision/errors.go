package provision

import "errors"

// ErrAlreadyBootstrapped is returned when the one-time bootstrap workflow is
// invoked after a platform owner already exists.
var ErrAlreadyBootstrapped = errors.New("A Shulowner already exists")

// ValidationError reports malformed or missing input. It is always raised
// before any write happens.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string { return e.msg }

func validationf(msg string) error { return ValidationError{msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
