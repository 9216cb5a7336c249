package respecth

import "github.com/c360studio/respecthconv/units"

// Profile is a pair of columns sampled at the same points.
type Profile struct {
	X units.Series
	Y units.Series
}

// Len returns the number of points.
func (p *Profile) Len() int { return len(p.X.Values) }

// ForceMonotonic drops every point i-1 for which x[i] <= x[i-1]. The test
// runs on the original sequence, so a single pass removes local plateaus
// and single-step reversals.
func (p *Profile) ForceMonotonic() {
	n := len(p.X.Values)
	if n < 2 {
		return
	}
	drop := make([]bool, n)
	for i := 1; i < n; i++ {
		if p.X.Values[i] <= p.X.Values[i-1] {
			drop[i-1] = true
		}
	}
	x := p.X.Values[:0]
	y := p.Y.Values[:0]
	for i := 0; i < n; i++ {
		if drop[i] {
			continue
		}
		x = append(x, p.X.Values[i])
		y = append(y, p.Y.Values[i])
	}
	p.X.Values = x
	p.Y.Values = y
}
