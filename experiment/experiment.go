// Package experiment classifies ReSpecTh experiments and selects the
// OpenSMOKE++ reactor model and parameter set for each of them.
package experiment

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/c360studio/respecthconv/composition"
	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/units"
)

// Experiment types, as written in experimentType.
const (
	IgnitionDelay            = "ignition delay measurement"
	JetStirredReactor        = "jet stirred reactor measurement"
	LaminarBurningVelocity   = "laminar burning velocity measurement"
	BurnerStabilizedFlame    = "burner stabilized flame speciation measurement"
	ConcentrationTimeProfile = "concentration time profile measurement"
	OutletConcentration      = "outlet concentration measurement"
)

// Apparatus kinds, as written in apparatus/kind.
const (
	FlowReactor             = "flow reactor"
	ShockTube               = "shock tube"
	RapidCompressionMachine = "rapid compression machine"
	StirredReactor          = "stirred reactor"
	Flame                   = "flame"
	Batch                   = "batch"
)

// BurnerStabilized is the only supported flame mode for speciation data.
const BurnerStabilized = "burner-stabilized"

// Names of the dictionaries shared by the converters.
const (
	mixStatusDict   = "mix-status"
	inletStatusDict = "inlet-status"
	outputDict      = "output-options"
	odeDict         = "ode-parameters"
	parametricDict  = "parametric-analysis"
	ignitionDict    = "ignition-delay-times"
	gridDict        = "grid"
	tProfileDict    = "T-Profile"
	inletStreamDict = "inlet-stream"
)

// Env carries what a converter needs beyond the document itself.
type Env struct {
	// Mechanism checks species names against the kinetic mechanism.
	Mechanism composition.Resolver

	// Aliases renames species before the mechanism check. Optional.
	Aliases composition.Aliaser

	// KineticsFolder is written as @KineticsFolder.
	KineticsFolder string

	// OutputFolder is where the solver writes its results.
	OutputFolder string

	// Name is the file stem, used to name profile files.
	Name string

	// Source is the path of the converted file.
	Source string

	Logger *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default().With("component", "experiment")
}

// Case is a converted experiment: the dictionary file and the profile
// files it references.
type Case struct {
	Name           string
	ExperimentType string
	Apparatus      string

	// Model is the name of the main dictionary, e.g. BatchReactor.
	Model string

	// Variation names what changes between the simulations of the case.
	Variation string

	// Runs is the number of simulations the case describes.
	Runs int

	File     *dictionary.File
	Profiles []dictionary.ProfileCSV
}

func newCase(doc *respecth.Document, env Env, apparatus, model, variation string) *Case {
	return &Case{
		Name:           env.Name,
		ExperimentType: doc.ExperimentType,
		Apparatus:      apparatus,
		Model:          model,
		Variation:      variation,
		Runs:           1,
		File:           &dictionary.File{Header: metadata(doc, env)},
	}
}

func metadata(doc *respecth.Document, env Env) dictionary.Metadata {
	m := dictionary.Metadata{
		Source:         env.Source,
		Author:         doc.FileAuthor,
		FileDOI:        doc.FileDOI,
		FileVersion:    doc.FileVersion.String(),
		ExperimentType: doc.ExperimentType,
		ApparatusKind:  doc.ApparatusKind(),
		Description:    strings.TrimSpace(doc.Bibliography.Description),
		ReferenceDOI:   strings.TrimSpace(doc.Bibliography.ReferenceDOI),
		Location:       strings.TrimSpace(doc.Bibliography.Location),
		Table:          strings.TrimSpace(doc.Bibliography.Table),
		Figure:         strings.TrimSpace(doc.Bibliography.Figure),
	}
	if doc.ReSpecThVersion != nil {
		m.ReSpecThVersion = doc.ReSpecThVersion.String()
	}
	return m
}

// checkApparatus returns the apparatus kind of doc when it is one of allowed.
func checkApparatus(doc *respecth.Document, allowed ...string) (string, error) {
	kind := doc.ApparatusKind()
	for _, a := range allowed {
		if kind == a {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: kind %s. Available: %s", ErrUnknownApparatus, kind, strings.Join(allowed, " | "))
}

func unsupported(experimentType, combinations string) error {
	return fmt.Errorf("%w for %s. Possible combinations of constant variables: %s",
		ErrUnsupportedCombination, experimentType, combinations)
}

// readRequired reads quantity name and fails when it is neither constant nor
// varying.
func readRequired(doc *respecth.Document, name string) (units.Series, error) {
	s, err := doc.Read(name)
	if err != nil {
		return units.Series{}, err
	}
	if s.Empty() {
		return units.Series{}, fmt.Errorf("%w: %s", respecth.ErrMissingProperty, name)
	}
	return s, nil
}

func initialComposition(doc *respecth.Document, env Env) (*composition.Composition, error) {
	comps, err := doc.InitialComponents()
	if err != nil {
		return nil, err
	}
	c, err := composition.Build(comps, env.Mechanism, env.Aliases)
	if err != nil {
		return nil, fmt.Errorf("initial composition: %w", err)
	}
	return c, nil
}

func varyingCompositions(doc *respecth.Document, env Env) ([]*composition.Composition, error) {
	rows, err := doc.VaryingComponents()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", respecth.ErrMissingProperty, respecth.CompositionColumn)
	}
	out := make([]*composition.Composition, 0, len(rows))
	for i, row := range rows {
		c, err := composition.Build(row, env.Mechanism, env.Aliases)
		if err != nil {
			return nil, fmt.Errorf("composition of dataPoint %d: %w", i+1, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// at returns value i of s as a dictionary quantity.
func at(s units.Series, i int) dictionary.Quantity {
	return dictionary.Quantity{Value: s.At(i), Unit: s.Unit}
}

func profileFileName(stem string, i int) string {
	return stem + "." + strconv.Itoa(i+1) + ".csv"
}
