package experiment

import (
	"fmt"
	"slices"

	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/units"
)

// BurnerStabilizedFlameConverter maps burner stabilized flame speciation
// measurements onto burner stabilized premixed flames, optionally with an
// imposed temperature profile.
type BurnerStabilizedFlameConverter struct{}

func (BurnerStabilizedFlameConverter) ExperimentType() string { return BurnerStabilizedFlame }

func (BurnerStabilizedFlameConverter) Apparatus() []string { return []string{Flame} }

func (c BurnerStabilizedFlameConverter) Convert(doc *respecth.Document, env Env) (*Case, error) {
	kind, err := checkApparatus(doc, c.Apparatus()...)
	if err != nil {
		return nil, err
	}
	mode := doc.Apparatus.Mode
	if mode == "" {
		mode = BurnerStabilized
	}
	if mode != BurnerStabilized {
		return nil, fmt.Errorf("%w: mode %s. Available: %s", ErrUnknownApparatus, mode, BurnerStabilized)
	}

	constants := doc.Constants()
	constM := constants.Has(units.FlowRate)
	constSL := constants.Has(units.LaminarBurningVelocity)
	if !constants.Has(units.Temperature) || !constants.Has(units.Pressure) ||
		!constants.Has(respecth.InitialComposition) || constM == constSL {
		return nil, unsupported(BurnerStabilizedFlame, "(T,P,X,m) | (T,P,X,sl)")
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

	inletKey, inletQuantity, variation := "InletMassFlux", units.FlowRate, "mass-flux"
	if constSL {
		inletKey, inletQuantity, variation = "InletVelocity", units.LaminarBurningVelocity, "velocity"
	}
	inlet, err := doc.ReadConstant(inletQuantity)
	if err != nil {
		return nil, err
	}

	// The temperature profile and its distances come from the same
	// dataGroup; species profiles may sit in another one.
	profile, fixed, err := doc.ReadProfile(units.Distance, units.Temperature)
	if err != nil {
		return nil, err
	}
	x, tp := profile.X, profile.Y
	if fixed && x.Empty() {
		return nil, fmt.Errorf("%w: temperature profile has no data points", respecth.ErrMissingProperty)
	}
	if fixed && x.First() != 0 {
		x.Values = slices.Insert(x.Values, 0, 0)
		tp.Values = slices.Insert(tp.Values, 0, t.First())
	}

	cs := newCase(doc, env, kind, "PremixedLaminarFlame1D", variation)

	flame := dictionary.New(cs.Model).
		Set("KineticsFolder", env.KineticsFolder).
		Set("Type", "BurnerStabilized").
		Set("InletStream", inletStreamDict).
		Set(inletKey, at(inlet, 0).String()).
		Set("Grid", gridDict).
		Set("Output", env.OutputFolder).
		Set("UseDaeSolver", "true")
	if fixed {
		flame.Set("FixedTemperatureProfile", tProfileDict)
	}

	length := dictionary.Quantity{Value: 10, Unit: "cm"}
	if fixed {
		length = dictionary.Quantity{Value: x.Last(), Unit: x.Unit}
	}
	cs.File.Add(
		flame,
		dictionary.MixStatus(inletStreamDict, at(t, 0), at(p, 0), mix),
		dictionary.Grid(gridDict, length),
	)
	if fixed {
		cs.File.Add(dictionary.FixedProfile(tProfileDict, x, tp))
	}
	return cs, nil
}
