package experiment

import (
	"fmt"
	"sort"
	"sync"

	"github.com/c360studio/respecthconv/respecth"
)

// Converter turns one kind of ReSpecTh experiment into a simulation case.
type Converter interface {
	// ExperimentType returns the experimentType this converter handles.
	ExperimentType() string

	// Apparatus returns the apparatus kinds it accepts.
	Apparatus() []string

	// Convert classifies the document and builds its case.
	Convert(doc *respecth.Document, env Env) (*Case, error)
}

// Registry manages converters keyed by experiment type.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
}

// DefaultRegistry holds every supported experiment type.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with all converters registered.
func NewRegistry() *Registry {
	r := &Registry{
		converters: make(map[string]Converter),
	}

	r.Register(IgnitionDelayConverter{})
	r.Register(JetStirredReactorConverter{})
	r.Register(LaminarBurningVelocityConverter{})
	r.Register(BurnerStabilizedFlameConverter{})
	r.Register(ConcentrationTimeProfileConverter{})
	r.Register(OutletConcentrationConverter{})

	return r
}

// Register adds a converter, replacing any converter of the same type.
func (r *Registry) Register(c Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[c.ExperimentType()] = c
}

// Get returns the converter for experimentType.
func (r *Registry) Get(experimentType string) (Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[experimentType]
	return c, ok
}

// Convert dispatches doc to the converter of its experiment type.
func (r *Registry) Convert(doc *respecth.Document, env Env) (*Case, error) {
	c, ok := r.Get(doc.ExperimentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExperimentType, doc.ExperimentType)
	}
	env.logger().Debug("Converting experiment",
		"file", env.Source, "type", doc.ExperimentType, "apparatus", doc.ApparatusKind())
	return c.Convert(doc, env)
}

// ExperimentTypes returns the registered experiment types, sorted.
func (r *Registry) ExperimentTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.converters))
	for t := range r.converters {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
