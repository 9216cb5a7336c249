package experiment

import (
	"fmt"

	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/units"
)

// VolumeHistory labels the dataGroups holding a volume-time history.
const VolumeHistory = "V-t history"

// IgnitionDelayConverter maps ignition delay measurements onto a
// non-isothermal constant-volume batch reactor, or a user-defined volume
// reactor when volume histories are given.
type IgnitionDelayConverter struct{}

func (IgnitionDelayConverter) ExperimentType() string { return IgnitionDelay }

func (IgnitionDelayConverter) Apparatus() []string {
	return []string{FlowReactor, ShockTube, RapidCompressionMachine}
}

func (c IgnitionDelayConverter) Convert(doc *respecth.Document, env Env) (*Case, error) {
	kind, err := checkApparatus(doc, c.Apparatus()...)
	if err != nil {
		return nil, err
	}
	idt, err := ignitionType(doc, env)
	if err != nil {
		return nil, err
	}

	constants := doc.Constants()
	if !constants.Has(respecth.InitialComposition) {
		return nil, fmt.Errorf("%w: only constant composition is allowed", ErrUnsupportedCombination)
	}
	constT := constants.Has(units.Temperature)
	constP := constants.Has(units.Pressure)

	var variation string
	switch {
	case constT && constP:
		return nil, fmt.Errorf("%w: pressure and temperature cannot be constant at the same time", ErrUnsupportedCombination)
	case !constT && constP:
		variation = "temperature"
	case constT && !constP:
		variation = "pressure"
	default:
		variation = "temperature-pressure"
	}

	t, err := readRequired(doc, units.Temperature)
	if err != nil {
		return nil, err
	}
	p, err := readRequired(doc, units.Pressure)
	if err != nil {
		return nil, err
	}
	if !constT && !constP && t.Len() != p.Len() {
		return nil, fmt.Errorf("%w: %d temperatures, %d pressures", ErrUnsupportedCombination, t.Len(), p.Len())
	}
	tau, err := doc.ReadVarying(units.IgnitionDelay)
	if err != nil {
		return nil, err
	}
	if tau.Empty() {
		return nil, fmt.Errorf("%w: %s", respecth.ErrMissingProperty, units.IgnitionDelay)
	}
	mix, err := initialComposition(doc, env)
	if err != nil {
		return nil, err
	}

	histories, err := doc.ReadProfiles(VolumeHistory, units.Time, units.Volume)
	if err != nil {
		return nil, err
	}
	for i := range histories {
		histories[i].ForceMonotonic()
	}

	cs := newCase(doc, env, kind, "BatchReactor", variation)
	cs.Runs = max(t.Len(), p.Len())

	reactorType := "NonIsothermal-ConstantVolume"
	if len(histories) > 0 {
		reactorType = "NonIsothermal-UserDefinedVolume"
	}
	reactor := dictionary.New(cs.Model).
		Set("KineticsFolder", env.KineticsFolder).
		Set("Type", reactorType).
		Set("InitialStatus", mixStatusDict).
		Set("EndTime", dictionary.Quantity{Value: 2 * tau.Max(), Unit: tau.Unit}.String()).
		Set("Volume", "1 cm3").
		Set("OdeParameters", odeDict).
		Set("Options", outputDict).
		Set("ParametricAnalysis", parametricDict).
		Set("IgnitionDelayTimes", ignitionDict)

	// The solver has no pressure rise model yet; keep the value visible.
	if constants.Has(units.PressureRise) {
		dpdt, err := doc.ReadConstant(units.PressureRise)
		if err != nil {
			return nil, err
		}
		reactor.SetComment("PressureCoefficient", at(dpdt, 0).String())
	}

	ignition, err := dictionary.IgnitionDelayTimes(ignitionDict, idt, kind == RapidCompressionMachine)
	if err != nil {
		return nil, err
	}

	cs.File.Add(
		reactor,
		dictionary.MixStatus(mixStatusDict, at(t, 0), at(p, 0), mix),
		dictionary.ODEParameters(odeDict, 1e-14, 1e-7),
		ignition,
	)

	if len(histories) == 0 {
		switch variation {
		case "temperature":
			cs.File.Add(dictionary.ParametricValues(parametricDict, variation, t))
		case "pressure":
			cs.File.Add(dictionary.ParametricValues(parametricDict, variation, p))
		default:
			cs.File.Add(dictionary.ParametricValues2(parametricDict, variation, t, p))
		}
	} else {
		if (!constT && len(histories) > t.Len()) || (!constP && len(histories) > p.Len()) {
			return nil, fmt.Errorf("%w: %d volume histories for %d data points",
				ErrUnsupportedCombination, len(histories), cs.Runs)
		}
		files := make([]string, len(histories))
		for i, h := range histories {
			files[i] = profileFileName(env.Name, i)
			cs.Profiles = append(cs.Profiles, dictionary.ProfileCSV{
				FileName:    files[i],
				Temperature: at(t, i),
				Pressure:    at(p, i),
				XName:       units.Time,
				YName:       units.Volume,
				X:           h.X,
				Y:           h.Y,
			})
		}
		cs.Runs = len(histories)
		cs.File.Add(dictionary.ParametricProfiles(parametricDict, "temperature-pressure", files))
	}

	cs.File.Add(dictionary.OutputOptions(outputDict, 1000, 5, env.OutputFolder))
	return cs, nil
}

// ignitionType reads the ignition definition and resolves a species target
// against the mechanism.
func ignitionType(doc *respecth.Document, env Env) (dictionary.Ignition, error) {
	it := doc.IgnitionType
	if it == nil {
		return dictionary.Ignition{}, fmt.Errorf("%w: experiment.ignitionType", respecth.ErrMissingElement)
	}
	idt := dictionary.Ignition{Target: it.Target, Type: it.Type, Amount: it.Amount, Units: it.Units}
	if idt.Target == "" || idt.Type == "" {
		return dictionary.Ignition{}, fmt.Errorf("%w: ignitionType target and type", respecth.ErrMissingElement)
	}

	switch idt.Target {
	case dictionary.TargetTemperature, dictionary.TargetPressure:
		return idt, nil
	case "P":
		idt.Target = dictionary.TargetPressure
		return idt, nil
	}
	name, err := env.Mechanism.Resolve(idt.Target)
	if err != nil {
		return dictionary.Ignition{}, fmt.Errorf("ignition target: %w", err)
	}
	idt.Target = name
	return idt, nil
}
