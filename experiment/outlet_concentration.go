package experiment

import (
	"fmt"

	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/units"
)

// OutletConcentrationConverter maps outlet concentrations measured while
// sweeping temperature or pressure. A varying residence time is paired
// point by point with the swept quantity.
type OutletConcentrationConverter struct{}

func (OutletConcentrationConverter) ExperimentType() string { return OutletConcentration }

func (OutletConcentrationConverter) Apparatus() []string { return []string{FlowReactor, ShockTube} }

func (c OutletConcentrationConverter) Convert(doc *respecth.Document, env Env) (*Case, error) {
	kind, err := checkApparatus(doc, c.Apparatus()...)
	if err != nil {
		return nil, err
	}

	constants := doc.Constants()
	constT := constants.Has(units.Temperature)
	constP := constants.Has(units.Pressure)
	if !constants.Has(respecth.InitialComposition) || constT == constP {
		return nil, unsupported(OutletConcentration, "(P,X) | (T,X)")
	}

	swept, quantity := "temperature", units.Temperature
	if constT {
		swept, quantity = "pressure", units.Pressure
	}

	t, err := readRequired(doc, units.Temperature)
	if err != nil {
		return nil, err
	}
	p, err := readRequired(doc, units.Pressure)
	if err != nil {
		return nil, err
	}
	tau, err := readRequired(doc, units.ResidenceTime)
	if err != nil {
		return nil, err
	}
	mix, err := initialComposition(doc, env)
	if err != nil {
		return nil, err
	}

	values := t
	if quantity == units.Pressure {
		values = p
	}

	variation := swept
	parametric := dictionary.ParametricValues(parametricDict, swept, values)
	if !constants.Has(units.ResidenceTime) {
		if tau.Len() != values.Len() {
			return nil, fmt.Errorf("%w: %d residence times, %d %s values",
				ErrUnsupportedCombination, tau.Len(), values.Len(), swept)
		}
		variation = "residence-time-" + swept
		parametric = dictionary.ParametricValues2(parametricDict, variation, tau, values)
	}

	var reactor *dictionary.Dictionary
	switch kind {
	case FlowReactor:
		reactor = dictionary.New("PlugFlowReactor").
			Set("KineticsFolder", env.KineticsFolder).
			Set("Type", "NonIsothermal").
			Set("InletStatus", inletStatusDict).
			Set("ResidenceTime", at(tau, 0).String()).
			Set("ConstantPressure", "true").
			Set("Velocity", "10 cm/s").
			Set("Options", outputDict).
			Set("ParametricAnalysis", parametricDict)
	default:
		reactor = dictionary.New("ShockTubeReactor").
			Set("KineticsFolder", env.KineticsFolder).
			Set("Type", "ReflectedShock").
			Set("ReflectedShockStatus", inletStatusDict).
			Set("EndTime", at(tau, 0).String()).
			Set("Options", outputDict).
			Set("ParametricAnalysis", parametricDict)
	}

	cs := newCase(doc, env, kind, reactor.Name, variation)
	cs.Runs = values.Len()
	cs.File.Add(
		reactor,
		dictionary.MixStatus(inletStatusDict, at(t, 0), at(p, 0), mix),
		parametric,
		dictionary.OutputOptions(outputDict, 1000, 5000, env.OutputFolder),
	)
	return cs, nil
}
