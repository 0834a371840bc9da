package power

import (
	"errors"
	"fmt"
	"strconv"
)

// AccessError reports that the ACPI call interface is missing or can't be
// used for both reading and writing. It is only returned when opening it.
type AccessError struct {
	Msg         string
	Description string
	Err         error
}

func (e *AccessError) Error() string {
	return e.Msg
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// ValueError reports a firmware answer that isn't a known code, or a
// requested value outside of a setting's domain.
type ValueError struct {
	Msg      string
	BadValue string
}

func (e *ValueError) Error() string {
	return e.Msg + ": " + strconv.Quote(e.BadValue)
}

// VerificationError is returned by Set when reading the setting back after
// the write doesn't give the requested value. The write has been issued.
type VerificationError struct {
	Setting Setting
	Want    Value
	Got     Value
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("failed to verify whether the %s was set correctly (requested %s, read back %s)",
		e.Setting.Description(), e.Want, e.Got)
}

const (
	KindAccess       = "AccessError"
	KindValue        = "ValueError"
	KindVerification = "VerificationError"
	KindIO           = "IOError"
)

// Kind names the class of err for presentation. Anything that isn't one of
// the typed errors of this package is an I/O failure.
func Kind(err error) string {
	var (
		accessErr *AccessError
		valueErr  *ValueError
		verifyErr *VerificationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &accessErr):
		return KindAccess
	case errors.As(err, &valueErr):
		return KindValue
	case errors.As(err, &verifyErr):
		return KindVerification
	default:
		return KindIO
	}
}

// Description returns the description carried by an AccessError, or "".
func Description(err error) string {
	var accessErr *AccessError
	if errors.As(err, &accessErr) {
		return accessErr.Description
	}
	return ""
}

// BadValue returns the offending value carried by a ValueError, or "".
func BadValue(err error) string {
	var valueErr *ValueError
	if errors.As(err, &valueErr) {
		return valueErr.BadValue
	}
	return ""
}
