package calendar

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

var (
	// ErrInvalidInterval is returned for empty or inverted ranges.
	ErrInvalidInterval = httperr.ErrBusiness("invalid_interval")

	// ErrMalformedInput is returned when a date or time representation cannot be parsed.
	ErrMalformedInput = httperr.ErrBusiness("malformed_input")
)
