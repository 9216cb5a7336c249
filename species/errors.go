package species

import (
	"errors"
	"fmt"
)

// ErrNotInMechanism is returned when a species is missing from the kinetic mechanism.
var ErrNotInMechanism = errors.New("species not in kinetic mechanism")

// NotFoundError names the species that failed the mechanism check.
type NotFoundError struct {
	Name          string
	CaseSensitive bool
}

func (e *NotFoundError) Error() string {
	check := "Case unsensitive check"
	if e.CaseSensitive {
		check = "Case sensitive check"
	}
	return fmt.Sprintf("%s: Species %s is not available in the kinetic mechanism", check, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotInMechanism }
