// Package units validates the units attached to ReSpecTh quantities and
// rewrites them into the unit system the OpenSMOKE++ dictionaries expect.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// Quantity names as they appear in the ReSpecTh "name" attribute.
const (
	EquivalenceRatio       = "equivalence ratio"
	Temperature            = "temperature"
	Pressure               = "pressure"
	ResidenceTime          = "residence time"
	IgnitionDelay          = "ignition delay"
	Time                   = "time"
	Volume                 = "volume"
	FlowRate               = "flow rate"
	PressureRise           = "pressure rise"
	Distance               = "distance"
	LaminarBurningVelocity = "laminar burning velocity"
)

var (
	// ErrUnknownUnit is returned when a unit is not accepted for a quantity.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrUnknownQuantity is returned for quantity names without a rule.
	ErrUnknownQuantity = errors.New("unknown quantity")
)

// UnitError describes a rejected quantity/unit pair.
type UnitError struct {
	Quantity string
	Unit     string
	Allowed  []string
	Err      error
}

func (e *UnitError) Error() string {
	if errors.Is(e.Err, ErrUnknownQuantity) {
		return fmt.Sprintf("unknown variable: %s", e.Quantity)
	}
	return fmt.Sprintf("unknown %s units: %s. Available units: %s",
		e.Quantity, e.Unit, strings.Join(e.Allowed, " | "))
}

func (e *UnitError) Unwrap() error { return e.Err }

// rewrite maps an accepted unit to its canonical form.
type rewrite struct {
	unit  string
	scale float64
}

// rule lists the accepted units of a quantity. Units missing from the
// rewrite map are kept as they are.
type rule struct {
	accepted []string
	rewrites map[string]rewrite
	any      bool
}

var timeRule = rule{
	accepted: []string{"s", "ms", "us", "ns", "min"},
	rewrites: map[string]rewrite{
		"ns": {unit: "ms", scale: 1e-6},
		"us": {unit: "ms", scale: 1e-3},
	},
}

var rules = map[string]rule{
	EquivalenceRatio: {any: true},
	Temperature: {
		accepted: []string{"K"},
	},
	Pressure: {
		accepted: []string{"atm", "bar", "mbar", "torr", "Torr", "Pa", "kPa", "MPa"},
		rewrites: map[string]rewrite{
			"torr": {unit: "atm", scale: 1 / 760.},
			"Torr": {unit: "atm", scale: 1 / 760.},
			"kPa":  {unit: "Pa", scale: 1e3},
			"MPa":  {unit: "Pa", scale: 1e6},
			"mbar": {unit: "bar", scale: 1e-3},
		},
	},
	ResidenceTime: timeRule,
	IgnitionDelay: timeRule,
	Time:          timeRule,
	Volume: {
		accepted: []string{"m3", "dm3", "cm3", "mm3", "L"},
		rewrites: map[string]rewrite{
			"L": {unit: "dm3", scale: 1},
		},
	},
	FlowRate: {
		accepted: []string{"g cm-2 s-1", "kg m-2 s-1"},
		rewrites: map[string]rewrite{
			"g cm-2 s-1": {unit: "g/cm2/s", scale: 1},
			"kg m-2 s-1": {unit: "kg/m2/s", scale: 1},
		},
	},
	PressureRise: {
		accepted: []string{"ms-1", "s-1"},
		rewrites: map[string]rewrite{
			"ms-1": {unit: "1/ms", scale: 1},
			"s-1":  {unit: "1/s", scale: 1},
		},
	},
	Distance: {
		accepted: []string{"m", "dm", "cm", "mm"},
	},
	LaminarBurningVelocity: {
		accepted: []string{"m/s", "cm/s", "mm/s"},
	},
}

// Known reports whether a quantity has a normalization rule.
func Known(quantity string) bool {
	_, ok := rules[quantity]
	return ok
}

// Allowed returns the units accepted for quantity, nil when any unit is
// accepted or the quantity is unknown.
func Allowed(quantity string) []string {
	r, ok := rules[quantity]
	if !ok || r.any {
		return nil
	}
	out := make([]string, len(r.accepted))
	copy(out, r.accepted)
	return out
}

// Normalize checks unit against the rules for quantity and returns the value
// expressed in the canonical unit.
func Normalize(quantity string, value float64, unit string) (float64, string, error) {
	r, ok := rules[quantity]
	if !ok {
		return 0, "", &UnitError{Quantity: quantity, Unit: unit, Err: ErrUnknownQuantity}
	}
	if r.any {
		return value, unit, nil
	}
	if !r.accepts(unit) {
		return 0, "", &UnitError{Quantity: quantity, Unit: unit, Allowed: Allowed(quantity), Err: ErrUnknownUnit}
	}
	if rw, ok := r.rewrites[unit]; ok {
		return value * rw.scale, rw.unit, nil
	}
	return value, unit, nil
}

func (r rule) accepts(unit string) bool {
	for _, u := range r.accepted {
		if u == unit {
			return true
		}
	}
	return false
}
