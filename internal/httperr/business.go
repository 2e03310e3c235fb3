package httperr

import "errors"

// BusinessError is a domain rule violation identified by a stable code.
// Values are comparable, so errors.Is matches a wrapped BusinessError by code.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// CodeOf returns the business code carried by err, if any.
func CodeOf(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
