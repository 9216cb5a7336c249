package convert

import (
	"encoding/xml"
	"errors"
	"io/fs"

	"github.com/c360studio/respecthconv/composition"
	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/experiment"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/species"
	"github.com/c360studio/respecthconv/units"
)

// Error kinds, as written in the batch report.
const (
	KindXML            = "xml"
	KindUnits          = "units"
	KindComposition    = "composition"
	KindSpecies        = "species"
	KindClassification = "classification"
	KindApparatus      = "apparatus"
	KindIO             = "io"
	KindUnknownType    = "unknown-type"
	KindOther          = "other"
)

// Error is a failed conversion of one file.
type Error struct {
	File           string
	ExperimentType string
	Kind           string
	Err            error
}

func (e *Error) Error() string {
	return e.File + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Kind classifies err into a report error kind. Species errors are checked
// first since they surface wrapped in composition errors.
func Kind(err error) string {
	var syntax *xml.SyntaxError
	var unitErr *units.UnitError
	var pathErr *fs.PathError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, species.ErrNotInMechanism):
		return KindSpecies
	case errors.As(err, &unitErr), errors.Is(err, units.ErrUnknownUnit), errors.Is(err, units.ErrUnknownQuantity):
		return KindUnits
	case errors.Is(err, composition.ErrEmpty),
		errors.Is(err, composition.ErrUnknownUnits),
		errors.Is(err, composition.ErrMixedConcentration),
		errors.Is(err, composition.ErrSum):
		return KindComposition
	case errors.Is(err, experiment.ErrUnknownExperimentType):
		return KindUnknownType
	case errors.Is(err, experiment.ErrUnknownApparatus):
		return KindApparatus
	case errors.Is(err, experiment.ErrUnsupportedCombination), errors.Is(err, dictionary.ErrIgnitionType):
		return KindClassification
	case errors.As(err, &syntax),
		errors.Is(err, respecth.ErrDecode),
		errors.Is(err, respecth.ErrMissingElement),
		errors.Is(err, respecth.ErrMissingProperty),
		errors.Is(err, respecth.ErrBadValue):
		return KindXML
	case errors.As(err, &pathErr), errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return KindIO
	default:
		return KindOther
	}
}
