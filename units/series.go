package units

import "slices"

// Series is a list of values of one quantity sharing a single unit.
type Series struct {
	Values []float64
	Unit   string
}

// Len returns the number of values.
func (s Series) Len() int { return len(s.Values) }

// Empty reports whether the series holds no values.
func (s Series) Empty() bool { return len(s.Values) == 0 }

// First returns the first value. It panics on an empty series.
func (s Series) First() float64 { return s.Values[0] }

// Last returns the last value. It panics on an empty series.
func (s Series) Last() float64 { return s.Values[len(s.Values)-1] }

// Max returns the largest value, 0 for an empty series.
func (s Series) Max() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return slices.Max(s.Values)
}

// At returns value i, or the only value when the series is constant.
func (s Series) At(i int) float64 {
	if len(s.Values) == 1 {
		return s.Values[0]
	}
	return s.Values[i]
}

// NormalizeSeries normalizes every value of s. The unit rewrite is the same
// for all values, so the result carries a single canonical unit.
func NormalizeSeries(quantity string, s Series) (Series, error) {
	if len(s.Values) == 0 {
		return Series{Unit: s.Unit}, nil
	}
	out := Series{Values: make([]float64, len(s.Values)), Unit: s.Unit}
	for i, v := range s.Values {
		nv, nu, err := Normalize(quantity, v, s.Unit)
		if err != nil {
			return Series{}, err
		}
		out.Values[i] = nv
		out.Unit = nu
	}
	return out, nil
}
