package experiment

import (
	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/units"
)

// jsrVariations maps the single varying quantity of a jet stirred reactor
// experiment to its parametric analysis type.
var jsrVariations = []struct {
	quantity string
	kind     string
}{
	{units.Temperature, "temperature"},
	{units.Pressure, "pressure"},
	{units.ResidenceTime, "time"},
	{units.Volume, "volume"},
}

// JetStirredReactorConverter maps jet stirred reactor measurements onto an
// isothermal constant-pressure perfectly stirred reactor.
type JetStirredReactorConverter struct{}

func (JetStirredReactorConverter) ExperimentType() string { return JetStirredReactor }

func (JetStirredReactorConverter) Apparatus() []string { return []string{StirredReactor} }

func (c JetStirredReactorConverter) Convert(doc *respecth.Document, env Env) (*Case, error) {
	kind, err := checkApparatus(doc, c.Apparatus()...)
	if err != nil {
		return nil, err
	}

	constants := doc.Constants()
	varying := -1
	for i, v := range jsrVariations {
		if constants.Has(v.quantity) {
			continue
		}
		if varying >= 0 {
			varying = -2
			break
		}
		varying = i
	}
	if !constants.Has(respecth.InitialComposition) || varying < 0 {
		return nil, unsupported(JetStirredReactor, "(P,X,V,tau) | (T,X,V,tau) | (T,P,X,tau) | (T,P,X,V)")
	}

	values := make(map[string]units.Series, len(jsrVariations))
	for _, v := range jsrVariations {
		s, err := readRequired(doc, v.quantity)
		if err != nil {
			return nil, err
		}
		values[v.quantity] = s
	}
	mix, err := initialComposition(doc, env)
	if err != nil {
		return nil, err
	}

	v := jsrVariations[varying]
	cs := newCase(doc, env, kind, "PerfectlyStirredReactor", v.kind)
	cs.Runs = values[v.quantity].Len()

	t, p := values[units.Temperature], values[units.Pressure]
	cs.File.Add(
		dictionary.New(cs.Model).
			Set("KineticsFolder", env.KineticsFolder).
			Set("Type", "Isothermal-ConstantPressure").
			Set("InletStatus", inletStatusDict).
			Set("ResidenceTime", at(values[units.ResidenceTime], 0).String()).
			Set("Volume", at(values[units.Volume], 0).String()).
			Set("Options", outputDict).
			Set("ParametricAnalysis", parametricDict),
		dictionary.MixStatus(inletStatusDict, at(t, 0), at(p, 0), mix),
		dictionary.ParametricValues(parametricDict, v.kind, values[v.quantity]),
		dictionary.OutputOptions(outputDict, 1000, 5000, env.OutputFolder),
	)
	return cs, nil
}
