package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors classifying API failures. Validation, authorization and
// guard failures are always detected before any write; anything unrecognized
// is treated as a downstream failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrGuard        = errors.New("guard violation")
)

// statusError carries a human-readable message while classifying as one of
// the package sentinels for status mapping.
type statusError struct {
	sentinel error
	msg      string
}

func (e statusError) Error() string { return e.msg }

func (e statusError) Is(target error) bool { return target == e.sentinel }

// Wrap classifies a failure under one of the package sentinels. The returned
// error reports msg on the wire and matches the sentinel under errors.Is.
func Wrap(sentinel error, msg string) error {
	return statusError{sentinel: sentinel, msg: msg}
}

// RespondError maps a classified error onto the {"error": ...} wire format.
// Errors matching no sentinel are downstream failures and map to 500.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrGuard):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	default:
		Error(w, http.StatusInternalServerError, err.Error())
	}
}
