package dictionary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/respecthconv/composition"
	"github.com/c360studio/respecthconv/units"
)

// Ignition delay detection settings shared by every ignition-delay-times
// dictionary.
const (
	FilterWidth                    = "0.1 ms"
	RegularizationTimeInterval     = "2.0 ms"
	TemperatureDerivativeThreshold = "1.0 K/ms"
)

// Ignition targets with their own flags. Any other target is a species.
const (
	TargetTemperature = "T"
	TargetPressure    = "p"
)

// Ignition detection types.
const (
	IgnitionMax                   = "max"
	IgnitionSlopeMax              = "d/dt max"
	IgnitionBaselineMaxIntercept  = "baseline max intercept from d/dt"
	IgnitionBaselineMinIntercept  = "baseline min intercept from d/dt"
	IgnitionConcentration         = "concentration"
	IgnitionRelativeConcentration = "relative concentration"
)

// ErrIgnitionType is returned for an ignition definition the solver cannot
// detect.
var ErrIgnitionType = errors.New("unsupported ignition type")

// Ignition describes how an ignition delay is detected.
type Ignition struct {
	Target string
	Type   string
	Amount string
	Units  string
}

// MixStatus describes a gas state: temperature, pressure and mole fractions.
func MixStatus(name string, t, p Quantity, c *composition.Composition) *Dictionary {
	parts := make([]string, 0, 2*c.Len())
	for i, s := range c.Species {
		parts = append(parts, s, Number(c.MoleFractions[i]))
	}
	return New(name).
		Set("Temperature", t.String()).
		Set("Pressure", p.String()).
		Set("MoleFractions", strings.Join(parts, " "))
}

// OutputOptions controls what the solver prints and where.
func OutputOptions(name string, stepsVideo, stepsFile int, folder string) *Dictionary {
	return New(name).
		Set("StepsVideo", strconv.Itoa(stepsVideo)).
		Set("StepsFile", strconv.Itoa(stepsFile)).
		Set("VerboseVideo", "true").
		Set("VerboseASCIIFile", "true").
		Set("OutputFolder", folder)
}

// ODEParameters selects the OpenSMOKE ODE solver with the given tolerances.
func ODEParameters(name string, absTol, relTol float64) *Dictionary {
	return New(name).
		Set("OdeSolver", "OpenSMOKE").
		Set("AbsoluteTolerance", Number(absTol)).
		Set("RelativeTolerance", Number(relTol))
}

// ParametricValues runs one simulation per value of s.
func ParametricValues(name, kind string, s units.Series) *Dictionary {
	return New(name).
		Set("Type", kind).
		Set("ListOfValues", Numbers(s.Values, s.Unit))
}

// ParametricValues2 runs one simulation per pair (s1[i], s2[i]).
func ParametricValues2(name, kind string, s1, s2 units.Series) *Dictionary {
	return New(name).
		Set("Type", kind).
		Set("ListOfValues", Numbers(s1.Values, s1.Unit)).
		Set("ListOfValues2", Numbers(s2.Values, s2.Unit))
}

// ParametricProfiles runs one simulation per profile file.
func ParametricProfiles(name, kind string, files []string) *Dictionary {
	return New(name).
		Set("Type", kind).
		SetLines("ListOfProfiles", files)
}

// IgnitionDelayTimes configures ignition delay detection. rcm marks rapid
// compression machine data.
func IgnitionDelayTimes(name string, idt Ignition, rcm bool) (*Dictionary, error) {
	d := New(name)
	switch idt.Target {
	case TargetTemperature:
		d.Set("Temperature", "true").Set("Pressure", "false")
	case TargetPressure:
		d.Set("Temperature", "false").Set("Pressure", "true")
	default:
		d.Set("Temperature", "false").Set("Pressure", "false")
		if err := setSpeciesIgnition(d, idt); err != nil {
			return nil, err
		}
	}

	if rcm {
		d.Set("RapidCompressionMachine", "true")
	}
	d.Set("FilterWidth", FilterWidth).
		Set("RegularizationTimeInterval", RegularizationTimeInterval).
		Set("TemperatureDerivativeThreshold", TemperatureDerivativeThreshold).
		Set("Verbose", "true")
	return d, nil
}

func setSpeciesIgnition(d *Dictionary, idt Ignition) error {
	switch idt.Type {
	case IgnitionMax:
		d.Set("Species", idt.Target)
	case IgnitionSlopeMax:
		d.Set("Species", idt.Target).Set("SpeciesSlope", "true")
	case IgnitionBaselineMaxIntercept:
		d.Set("Species", idt.Target).Set("SpeciesMaxIntercept", idt.Target)
	case IgnitionBaselineMinIntercept:
		d.Set("Species", idt.Target).Set("SpeciesMinIntercept", idt.Target)
	case IgnitionConcentration, IgnitionRelativeConcentration:
		key, value, err := targetEntry(idt)
		if err != nil {
			return err
		}
		d.Set(key, value)
	default:
		return fmt.Errorf("%w: %q", ErrIgnitionType, idt.Type)
	}
	return nil
}

func targetEntry(idt Ignition) (string, string, error) {
	prefix := "Target"
	if idt.Type == IgnitionRelativeConcentration {
		prefix = "TargetRelative"
	}
	switch idt.Units {
	case composition.MoleFraction:
		return prefix + "MoleFractions", idt.Target + " " + idt.Amount, nil
	case composition.Concentration:
		// A relative target is a ratio of concentrations and carries no unit.
		if idt.Type == IgnitionRelativeConcentration {
			return prefix + "Concentrations", idt.Target + " " + idt.Amount, nil
		}
		return prefix + "Concentrations", idt.Target + " " + idt.Amount + " " + idt.Units, nil
	default:
		return "", "", fmt.Errorf("%w: %s with units %q", ErrIgnitionType, idt.Type, idt.Units)
	}
}

// Grid is the adaptive 1D mesh of a flame simulation.
func Grid(name string, length Quantity) *Dictionary {
	return New(name).
		Set("Length", length.String()).
		Set("InitialPoints", "12").
		Set("Type", "database").
		Set("MaxPoints", "400").
		Set("MaxAdaptivePoints", "15").
		Set("GradientCoefficient", "0.05").
		Set("CurvatureCoefficient", "0.5")
}

// FixedProfile imposes a temperature profile along the flame coordinate.
func FixedProfile(name string, x, y units.Series) *Dictionary {
	lines := make([]string, 0, x.Len())
	for i := range x.Values {
		lines = append(lines, Number(x.Values[i])+" "+Number(y.Values[i]))
	}
	return New(name).
		Set("XVariable", "length").
		Set("YVariable", "temperature").
		Set("XUnits", x.Unit).
		Set("YUnits", y.Unit).
		SetLines("Profile", lines)
}
