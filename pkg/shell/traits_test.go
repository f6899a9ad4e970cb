package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHyperparameters(t *testing.T) {
	hp := DefaultHyperparameters()
	assert.Equal(t, 10, hp.PointsInCircle)
	assert.Equal(t, 0.15, hp.TimeStep)
	assert.False(t, hp.UseInnerSurface)
	assert.NoError(t, hp.Validate())
}

func TestHyperparametersFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want Hyperparameters
	}{
		{
			name: "empty uses defaults",
			in:   map[string]any{},
			want: DefaultHyperparameters(),
		},
		{
			name: "all keys",
			in:   map[string]any{"points_in_circle": 32, "time_step": 0.05, "use_inner_surface": true},
			want: Hyperparameters{PointsInCircle: 32, TimeStep: 0.05, UseInnerSurface: true},
		},
		{
			name: "string values are coerced",
			in:   map[string]any{"points_in_circle": "12", "time_step": "0.2", "use_inner_surface": "true"},
			want: Hyperparameters{PointsInCircle: 12, TimeStep: 0.2, UseInnerSurface: true},
		},
		{
			name: "unknown keys ignored",
			in:   map[string]any{"time_step": 0.3, "render_samples": 128},
			want: Hyperparameters{PointsInCircle: DefaultPointsInCircle, TimeStep: 0.3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HyperparametersFromMap(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHyperparametersFromMapBadValue(t *testing.T) {
	_, err := HyperparametersFromMap(map[string]any{"points_in_circle": "many"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func traitRow() map[string]any {
	return map[string]any{
		"b": 0.2, "d": 1.65, "z": 0, "a": 1, "phi": 0, "psi": 0,
		"c_depth": 0.1, "c_n": 70, "n_depth": 0, "n": 0,
		"t": 1.0, "eps": 0.8, "h_0": 0.1,
	}
}

func TestTraitsFromMap(t *testing.T) {
	tr, err := TraitsFromMap(traitRow())
	require.NoError(t, err)
	assert.Equal(t, referenceTraits(), tr)
	assert.Nil(t, tr.Length)
}

func TestTraitsFromMapLength(t *testing.T) {
	tests := []struct {
		name   string
		length any
		want   *float64
	}{
		{"number", 2.5, ptr(2.5)},
		{"string", "4", ptr(4)},
		{"blank", "", nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := traitRow()
			row["length"] = tt.length
			tr, err := TraitsFromMap(row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Length)
		})
	}
}

func TestTraitsFromMapErrors(t *testing.T) {
	missing := traitRow()
	delete(missing, "h_0")
	_, err := TraitsFromMap(missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "h_0")

	bad := traitRow()
	bad["phi"] = "north"
	_, err = TraitsFromMap(bad)
	var perr *InvalidParameterError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "phi", perr.Name)
}

func TestDegeneracyKindString(t *testing.T) {
	assert.Equal(t, "degenerate_aperture", DegenerateAperture.String())
	assert.Equal(t, "invalid_thickness", InvalidThickness.String())
	assert.Equal(t, "wall_too_thick", WallTooThick.String())
	assert.Equal(t, "unknown(9)", DegeneracyKind(9).String())
}

func ptr(f float64) *float64 { return &f }
