package respecth

import (
	"fmt"

	"github.com/c360studio/respecthconv/composition"
	"github.com/c360studio/respecthconv/units"
)

// VariableSet records which quantities are declared in commonProperties.
type VariableSet map[string]bool

// Has reports whether quantity is held constant.
func (s VariableSet) Has(quantity string) bool { return s[quantity] }

// Constants returns the quantities held constant across all data points.
func (d *Document) Constants() VariableSet {
	set := make(VariableSet, len(d.CommonProperties))
	for _, p := range d.CommonProperties {
		set[p.Name] = true
	}
	return set
}

// CommonProperty returns the first commonProperties entry named name.
func (d *Document) CommonProperty(name string) (*Property, bool) {
	for i := range d.CommonProperties {
		if d.CommonProperties[i].Name == name {
			return &d.CommonProperties[i], true
		}
	}
	return nil, false
}

// ReadConstant returns the normalized value of a commonProperties quantity
// as a single-value series.
func (d *Document) ReadConstant(name string) (units.Series, error) {
	p, ok := d.CommonProperty(name)
	if !ok {
		return units.Series{}, fmt.Errorf("%w: commonProperties %s", ErrMissingProperty, name)
	}
	v, err := parseFloat(name, p.Value)
	if err != nil {
		return units.Series{}, err
	}
	nv, nu, err := units.Normalize(name, v, p.Units)
	if err != nil {
		return units.Series{}, err
	}
	return units.Series{Values: []float64{nv}, Unit: nu}, nil
}

// ReadVarying returns the normalized column of quantity name taken from the
// first dataGroup declaring it. An absent column yields an empty series.
func (d *Document) ReadVarying(name string) (units.Series, error) {
	for gi := range d.DataGroups {
		g := &d.DataGroups[gi]
		p, ok := g.Property(name)
		if !ok {
			continue
		}
		s := units.Series{Values: make([]float64, 0, len(g.DataPoints)), Unit: p.Units}
		for _, dp := range g.DataPoints {
			v, err := dp.Value(p.ID)
			if err != nil {
				return units.Series{}, fmt.Errorf("dataGroup %s: %w", g.ID, err)
			}
			s.Values = append(s.Values, v)
		}
		return units.NormalizeSeries(name, s)
	}
	return units.Series{}, nil
}

// Read returns the constant value of name when it is declared in
// commonProperties and its varying column otherwise.
func (d *Document) Read(name string) (units.Series, error) {
	if _, ok := d.CommonProperty(name); ok {
		return d.ReadConstant(name)
	}
	return d.ReadVarying(name)
}

// InitialComponents returns the components of the constant initial
// composition.
func (d *Document) InitialComponents() ([]composition.Component, error) {
	p, ok := d.CommonProperty(InitialComposition)
	if !ok {
		return nil, fmt.Errorf("%w: commonProperties %s", ErrMissingProperty, InitialComposition)
	}
	out := make([]composition.Component, 0, len(p.Components))
	for _, c := range p.Components {
		amount, err := parseFloat(c.SpeciesLink.PreferredKey, c.Amount.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, composition.Component{
			PreferredKey: c.SpeciesLink.PreferredKey,
			ChemName:     c.SpeciesLink.ChemName,
			CAS:          c.SpeciesLink.CAS,
			Amount:       amount,
			Units:        c.Amount.Units,
		})
	}
	return out, nil
}

// VaryingComponents returns one component list per dataPoint, built from
// the composition columns of the first dataGroup declaring any.
func (d *Document) VaryingComponents() ([][]composition.Component, error) {
	for gi := range d.DataGroups {
		g := &d.DataGroups[gi]
		var cols []*Property
		for i := range g.Properties {
			if g.Properties[i].Name == CompositionColumn {
				cols = append(cols, &g.Properties[i])
			}
		}
		if len(cols) == 0 {
			continue
		}

		rows := make([][]composition.Component, 0, len(g.DataPoints))
		for _, dp := range g.DataPoints {
			row := make([]composition.Component, 0, len(cols))
			for _, col := range cols {
				v, err := dp.Value(col.ID)
				if err != nil {
					return nil, fmt.Errorf("dataGroup %s: %w", g.ID, err)
				}
				c := composition.Component{Amount: v, Units: col.Units}
				if col.SpeciesLink != nil {
					c.PreferredKey = col.SpeciesLink.PreferredKey
					c.ChemName = col.SpeciesLink.ChemName
					c.CAS = col.SpeciesLink.CAS
				}
				row = append(row, c)
			}
			rows = append(rows, row)
		}
		return rows, nil
	}
	return nil, nil
}

// ReadProfiles returns one (x, y) profile for every dataGroup whose label or
// id equals label. Both columns are normalized.
func (d *Document) ReadProfiles(label, xName, yName string) ([]Profile, error) {
	var out []Profile
	for gi := range d.DataGroups {
		g := &d.DataGroups[gi]
		if g.Label != label && g.ID != label {
			continue
		}
		p, err := g.profile(xName, yName)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ReadProfile returns the (x, y) columns of the first dataGroup declaring
// yName. Both columns are taken from that group, so x is never paired with
// a column of another group. ok is false when no group declares yName.
func (d *Document) ReadProfile(xName, yName string) (Profile, bool, error) {
	for gi := range d.DataGroups {
		g := &d.DataGroups[gi]
		if _, ok := g.Property(yName); !ok {
			continue
		}
		p, err := g.profile(xName, yName)
		if err != nil {
			return Profile{}, false, err
		}
		return p, true, nil
	}
	return Profile{}, false, nil
}

// profile reads and normalizes columns xName and yName of g.
func (g *DataGroup) profile(xName, yName string) (Profile, error) {
	xp, okx := g.Property(xName)
	yp, oky := g.Property(yName)
	if !okx || !oky {
		return Profile{}, fmt.Errorf("%w: dataGroup %s needs %s and %s", ErrMissingProperty, g.name(), xName, yName)
	}

	x := units.Series{Unit: xp.Units}
	y := units.Series{Unit: yp.Units}
	for _, dp := range g.DataPoints {
		xv, err := dp.Value(xp.ID)
		if err != nil {
			return Profile{}, fmt.Errorf("dataGroup %s: %w", g.name(), err)
		}
		yv, err := dp.Value(yp.ID)
		if err != nil {
			return Profile{}, fmt.Errorf("dataGroup %s: %w", g.name(), err)
		}
		x.Values = append(x.Values, xv)
		y.Values = append(y.Values, yv)
	}

	var err error
	if x, err = units.NormalizeSeries(xName, x); err != nil {
		return Profile{}, err
	}
	if y, err = units.NormalizeSeries(yName, y); err != nil {
		return Profile{}, err
	}
	return Profile{X: x, Y: y}, nil
}

func (g *DataGroup) name() string {
	if g.Label != "" {
		return g.Label
	}
	return g.ID
}
