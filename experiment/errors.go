package experiment

import "errors"

var (
	// ErrUnknownExperimentType is returned for an experimentType without a
	// registered converter.
	ErrUnknownExperimentType = errors.New("unknown experiment type")

	// ErrUnknownApparatus is returned when the apparatus kind or mode is not
	// supported for the experiment type.
	ErrUnknownApparatus = errors.New("unknown apparatus")

	// ErrUnsupportedCombination is returned when the constant and varying
	// quantities match no row of the experiment's decision table.
	ErrUnsupportedCombination = errors.New("unsupported combination of constant variables")
)
