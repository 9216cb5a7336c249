package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		quantity  string
		value     float64
		unit      string
		wantValue float64
		wantUnit  string
	}{
		{Temperature, 1200, "K", 1200, "K"},
		{Pressure, 760, "torr", 1, "atm"},
		{Pressure, 380, "Torr", 0.5, "atm"},
		{Pressure, 101.325, "kPa", 101325, "Pa"},
		{Pressure, 2, "MPa", 2e6, "Pa"},
		{Pressure, 1013, "mbar", 1.013, "bar"},
		{Pressure, 10, "atm", 10, "atm"},
		{Pressure, 40, "bar", 40, "bar"},
		{IgnitionDelay, 500, "us", 0.5, "ms"},
		{IgnitionDelay, 2e6, "ns", 2, "ms"},
		{ResidenceTime, 0.7, "s", 0.7, "s"},
		{Time, 3, "min", 3, "min"},
		{Volume, 2, "L", 2, "dm3"},
		{Volume, 85, "cm3", 85, "cm3"},
		{FlowRate, 0.004, "g cm-2 s-1", 0.004, "g/cm2/s"},
		{FlowRate, 0.04, "kg m-2 s-1", 0.04, "kg/m2/s"},
		{PressureRise, 0.02, "ms-1", 0.02, "1/ms"},
		{PressureRise, 2, "s-1", 2, "1/s"},
		{Distance, 0.5, "cm", 0.5, "cm"},
		{LaminarBurningVelocity, 35, "cm/s", 35, "cm/s"},
		{EquivalenceRatio, 1, "unitless", 1, "unitless"},
	}

	for _, tt := range tests {
		t.Run(tt.quantity+"/"+tt.unit, func(t *testing.T) {
			v, u, err := Normalize(tt.quantity, tt.value, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantValue, v, 1e-9*max(1, tt.wantValue))
			assert.Equal(t, tt.wantUnit, u)
		})
	}
}

func TestNormalize_Rejections(t *testing.T) {
	t.Run("unknown unit", func(t *testing.T) {
		_, _, err := Normalize(Temperature, 25, "C")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownUnit))

		var ue *UnitError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, []string{"K"}, ue.Allowed)
		assert.Contains(t, err.Error(), "Available units: K")
	})

	t.Run("flow rate only accepts mass flux units", func(t *testing.T) {
		_, _, err := Normalize(FlowRate, 1, "us")
		assert.ErrorIs(t, err, ErrUnknownUnit)
	})

	t.Run("unknown quantity", func(t *testing.T) {
		_, _, err := Normalize("density", 1, "kg/m3")
		assert.ErrorIs(t, err, ErrUnknownQuantity)
		assert.Contains(t, err.Error(), "unknown variable: density")
	})
}

func TestAllowed(t *testing.T) {
	assert.Equal(t, []string{"m", "dm", "cm", "mm"}, Allowed(Distance))
	assert.Nil(t, Allowed(EquivalenceRatio))
	assert.Nil(t, Allowed("unknown"))
	assert.True(t, Known(PressureRise))
	assert.False(t, Known("density"))

	// callers must not be able to alter the rule table
	a := Allowed(Temperature)
	a[0] = "C"
	assert.Equal(t, []string{"K"}, Allowed(Temperature))
}

func TestNormalizeSeries(t *testing.T) {
	s, err := NormalizeSeries(Pressure, Series{Values: []float64{760, 1520}, Unit: "torr"})
	require.NoError(t, err)
	assert.Equal(t, "atm", s.Unit)
	assert.InDeltaSlice(t, []float64{1, 2}, s.Values, 1e-12)

	empty, err := NormalizeSeries(Pressure, Series{Unit: "furlongs"})
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	_, err = NormalizeSeries(Temperature, Series{Values: []float64{300}, Unit: "F"})
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestSeriesAccessors(t *testing.T) {
	s := Series{Values: []float64{3, 9, 1}, Unit: "ms"}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3.0, s.First())
	assert.Equal(t, 1.0, s.Last())
	assert.Equal(t, 9.0, s.Max())
	assert.Equal(t, 9.0, s.At(1))

	constant := Series{Values: []float64{5}, Unit: "K"}
	assert.Equal(t, 5.0, constant.At(4))
	assert.Equal(t, 0.0, Series{}.Max())
}
