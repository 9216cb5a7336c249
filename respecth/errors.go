package respecth

import "errors"

// Document errors.
var (
	// ErrMissingElement is returned when a mandatory element is absent.
	ErrMissingElement = errors.New("missing mandatory element")

	// ErrMissingProperty is returned when a requested property is absent.
	ErrMissingProperty = errors.New("property not found")

	// ErrBadValue is returned for values that are not numbers.
	ErrBadValue = errors.New("invalid numeric value")

	// ErrDecode wraps every failure to decode the XML itself, including
	// empty input and a root element other than experiment.
	ErrDecode = errors.New("malformed ReSpecTh document")
)
