// Package composition validates mixture compositions read from ReSpecTh
// files and converts them to normalized mole fractions.
package composition

import (
	"errors"
	"fmt"
	"math"
)

// Units accepted for a component amount.
const (
	MoleFraction  = "mole fraction"
	Percent       = "percent"
	PPM           = "ppm"
	PPB           = "ppb"
	Concentration = "mol/cm3"
)

// SumTolerance is the largest accepted deviation of the mole fraction sum from 1.
const SumTolerance = 1.0001e-4

var (
	// ErrEmpty is returned for a composition without components.
	ErrEmpty = errors.New("composition has no components")

	// ErrUnknownUnits is returned for an amount unit outside the accepted set.
	ErrUnknownUnits = errors.New("unknown units for composition")

	// ErrMixedConcentration is returned when mol/cm3 is mixed with other units.
	ErrMixedConcentration = errors.New("if composition is given in terms of concentration, this must be done for all the species")

	// ErrSum is returned when mole fractions do not add up to 1.
	ErrSum = errors.New("sum is not equal to 1")
)

// Component is one species entry of a ReSpecTh composition.
type Component struct {
	PreferredKey string
	ChemName     string
	CAS          string
	Amount       float64
	Units        string
}

// Resolver maps ReSpecTh species identifiers onto the kinetic mechanism.
type Resolver interface {
	// Resolve returns the mechanism spelling of name.
	Resolve(name string) (string, error)
}

// Aliaser renames species through an alias database.
type Aliaser interface {
	// Lookup returns the mechanism name of a species given its CAS number
	// or chemical name.
	Lookup(cas, chemName string) (string, bool)
}

// Composition is a validated mixture in mole fractions summing to 1.
type Composition struct {
	Species       []string
	MoleFractions []float64
}

// Len returns the number of species.
func (c *Composition) Len() int { return len(c.Species) }

// Build renames, checks and normalizes components. aliases may be nil.
func Build(components []Component, mech Resolver, aliases Aliaser) (*Composition, error) {
	if len(components) == 0 {
		return nil, ErrEmpty
	}

	c := &Composition{
		Species:       make([]string, len(components)),
		MoleFractions: make([]float64, len(components)),
	}

	for i, comp := range components {
		name := comp.PreferredKey
		if aliases != nil {
			if alias, ok := aliases.Lookup(comp.CAS, comp.ChemName); ok {
				name = alias
			}
		}
		resolved, err := mech.Resolve(name)
		if err != nil {
			return nil, err
		}
		c.Species[i] = resolved
	}

	if err := c.toMoleFractions(components); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Composition) toMoleFractions(components []Component) error {
	concentration := false
	for i, comp := range components {
		switch comp.Units {
		case MoleFraction:
			c.MoleFractions[i] = comp.Amount
		case Percent:
			c.MoleFractions[i] = comp.Amount / 100
		case PPM:
			c.MoleFractions[i] = comp.Amount / 1e6
		case PPB:
			c.MoleFractions[i] = comp.Amount / 1e9
		case Concentration:
			concentration = true
			c.MoleFractions[i] = comp.Amount
		default:
			return fmt.Errorf("%w: %s. Available units: mole fraction | percent | ppm | ppb | mol/cm3", ErrUnknownUnits, comp.Units)
		}
	}

	if concentration {
		total := 0.
		for _, comp := range components {
			if comp.Units != Concentration {
				return ErrMixedConcentration
			}
			total += comp.Amount
		}
		if !(total > 0) {
			return fmt.Errorf("%w: total concentration %g", ErrSum, total)
		}
		for i := range c.MoleFractions {
			c.MoleFractions[i] /= total
		}
	}

	sum := 0.
	for _, x := range c.MoleFractions {
		sum += x
	}
	// Written so that NaN fails the check.
	if !(math.Abs(sum-1) <= SumTolerance) {
		return fmt.Errorf("%w: %g", ErrSum, sum)
	}
	for i := range c.MoleFractions {
		c.MoleFractions[i] /= sum
	}
	return nil
}
