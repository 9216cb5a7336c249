package experiment

import (
	"fmt"

	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/units"
)

// ConcentrationTimeProfileConverter maps species histories measured at
// fixed temperature, pressure and composition. The reactor follows the
// apparatus: plug flow for flow reactors, reflected shock for shock tubes,
// isothermal constant pressure for batch reactors.
type ConcentrationTimeProfileConverter struct{}

func (ConcentrationTimeProfileConverter) ExperimentType() string { return ConcentrationTimeProfile }

func (ConcentrationTimeProfileConverter) Apparatus() []string {
	return []string{FlowReactor, ShockTube, Batch}
}

func (c ConcentrationTimeProfileConverter) Convert(doc *respecth.Document, env Env) (*Case, error) {
	kind, err := checkApparatus(doc, c.Apparatus()...)
	if err != nil {
		return nil, err
	}

	constants := doc.Constants()
	if !constants.Has(units.Temperature) || !constants.Has(units.Pressure) || !constants.Has(respecth.InitialComposition) {
		return nil, fmt.Errorf("%w: T, P and X must be defined as constant variables", ErrUnsupportedCombination)
	}

	t, err := doc.ReadConstant(units.Temperature)
	if err != nil {
		return nil, err
	}
	p, err := doc.ReadConstant(units.Pressure)
	if err != nil {
		return nil, err
	}
	mix, err := initialComposition(doc, env)
	if err != nil {
		return nil, err
	}
	times, err := doc.ReadVarying(units.Time)
	if err != nil {
		return nil, err
	}
	if times.Empty() {
		return nil, fmt.Errorf("%w: %s", respecth.ErrMissingProperty, units.Time)
	}
	end := dictionary.Quantity{Value: times.Last(), Unit: times.Unit}.String()

	var reactor *dictionary.Dictionary
	switch kind {
	case FlowReactor:
		reactor = dictionary.New("PlugFlowReactor").
			Set("KineticsFolder", env.KineticsFolder).
			Set("Type", "Isothermal").
			Set("InletStatus", mixStatusDict).
			Set("ResidenceTime", end).
			Set("ConstantPressure", "true").
			Set("Velocity", "10 cm/s").
			Set("Options", outputDict)
	case ShockTube:
		reactor = dictionary.New("ShockTubeReactor").
			Set("KineticsFolder", env.KineticsFolder).
			Set("Type", "ReflectedShock").
			Set("ReflectedShockStatus", mixStatusDict).
			Set("EndTime", end).
			Set("Options", outputDict)
	default:
		reactor = dictionary.New("BatchReactor").
			Set("KineticsFolder", env.KineticsFolder).
			Set("Type", "Isothermal-ConstantPressure").
			Set("InitialStatus", mixStatusDict).
			Set("EndTime", end).
			Set("Options", outputDict)
	}

	cs := newCase(doc, env, kind, reactor.Name, "time")
	cs.File.Add(
		reactor,
		dictionary.MixStatus(mixStatusDict, at(t, 0), at(p, 0), mix),
		dictionary.OutputOptions(outputDict, 1000, 1, env.OutputFolder),
	)
	return cs, nil
}
