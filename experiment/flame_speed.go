package experiment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/respecthconv/composition"
	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/units"
)

// LaminarBurningVelocityConverter maps laminar burning velocity
// measurements onto freely propagating premixed flames, one inlet stream
// per data point.
type LaminarBurningVelocityConverter struct{}

func (LaminarBurningVelocityConverter) ExperimentType() string { return LaminarBurningVelocity }

func (LaminarBurningVelocityConverter) Apparatus() []string { return []string{Flame} }

func (c LaminarBurningVelocityConverter) Convert(doc *respecth.Document, env Env) (*Case, error) {
	kind, err := checkApparatus(doc, c.Apparatus()...)
	if err != nil {
		return nil, err
	}

	constants := doc.Constants()
	constT := constants.Has(units.Temperature)
	constP := constants.Has(units.Pressure)
	constX := constants.Has(respecth.InitialComposition)

	var variation string
	switch {
	case constT && constX && !constP:
		variation = "pressure"
	case !constT && constX && constP:
		variation = "temperature"
	case constT && !constX && constP:
		variation = "composition"
	case !constT && !constX && constP:
		variation = "temperature-composition"
	case constT && !constX && !constP:
		variation = "pressure-composition"
	default:
		return nil, unsupported(LaminarBurningVelocity, "(P,X) | (T,X) | (T,P) | (P) | (T)")
	}

	t, err := readRequired(doc, units.Temperature)
	if err != nil {
		return nil, err
	}
	p, err := readRequired(doc, units.Pressure)
	if err != nil {
		return nil, err
	}
	var mixes []*composition.Composition
	if constX {
		mix, err := initialComposition(doc, env)
		if err != nil {
			return nil, err
		}
		mixes = []*composition.Composition{mix}
	} else if mixes, err = varyingCompositions(doc, env); err != nil {
		return nil, err
	}

	n := max(t.Len(), p.Len(), len(mixes))
	for _, l := range []int{t.Len(), p.Len(), len(mixes)} {
		if l != 1 && l != n {
			return nil, fmt.Errorf("%w: varying quantities have different lengths (%d, %d, %d)",
				ErrUnsupportedCombination, t.Len(), p.Len(), len(mixes))
		}
	}

	cs := newCase(doc, env, kind, "PremixedLaminarFlame1D", variation)
	cs.Runs = n

	streams := make([]string, n)
	for i := range streams {
		streams[i] = inletStreamDict + "-" + strconv.Itoa(i+1)
	}
	cs.File.Add(dictionary.New(cs.Model).
		Set("KineticsFolder", env.KineticsFolder).
		Set("Type", "FlameSpeed").
		Set("InletStream", strings.Join(streams, " ")).
		Set("InletVelocity", "50 cm/s").
		Set("Grid", gridDict).
		Set("Output", env.OutputFolder).
		Set("UseDaeSolver", "true"))

	for i, name := range streams {
		mix := mixes[0]
		if len(mixes) > 1 {
			mix = mixes[i]
		}
		cs.File.Add(dictionary.MixStatus(name, at(t, i), at(p, i), mix))
	}
	cs.File.Add(dictionary.Grid(gridDict, dictionary.Quantity{Value: 5, Unit: "cm"}))
	return cs, nil
}
