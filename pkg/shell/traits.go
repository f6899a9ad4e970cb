// Package shell implements the parametric shell surface model: a
// logarithmic-spiral centerline with an aperture curve swept along a
// closed-form frame, sampled into rings of 3D points.
package shell

import (
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// Default discretization values.
const (
	DefaultPointsInCircle = 10
	DefaultTimeStep       = 0.15
)

// Traits are the biological shape parameters of one specimen.
type Traits struct {
	B      float64 `yaml:"b" toml:"b"`             // spiral growth rate
	D      float64 `yaml:"d" toml:"d"`             // spiral radius scale
	Z      float64 `yaml:"z" toml:"z"`             // whorl translation
	A      float64 `yaml:"a" toml:"a"`             // aperture elongation
	Phi    float64 `yaml:"phi" toml:"phi"`         // aperture orientation (radians)
	Psi    float64 `yaml:"psi" toml:"psi"`         // aperture roll (radians)
	CDepth float64 `yaml:"c_depth" toml:"c_depth"` // axial ribbing amplitude
	CN     float64 `yaml:"c_n" toml:"c_n"`         // axial ribbing frequency
	NDepth float64 `yaml:"n_depth" toml:"n_depth"` // radial ribbing amplitude
	N      float64 `yaml:"n" toml:"n"`             // radial ribbing frequency
	T      float64 `yaml:"t" toml:"t"`             // spiral extent (radians)
	Eps    float64 `yaml:"eps" toml:"eps"`         // thickness law exponent
	H0     float64 `yaml:"h_0" toml:"h_0"`         // base wall thickness

	// Length is the target extent along LengthAxis. Nil disables rescaling.
	Length *float64 `yaml:"length,omitempty" toml:"length,omitempty"`
}

// Hyperparameters control how finely the surface is sampled.
type Hyperparameters struct {
	PointsInCircle  int     `yaml:"points_in_circle" toml:"points_in_circle"`
	TimeStep        float64 `yaml:"time_step" toml:"time_step"`
	UseInnerSurface bool    `yaml:"use_inner_surface" toml:"use_inner_surface"`
}

// DefaultHyperparameters returns the reference discretization.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		PointsInCircle:  DefaultPointsInCircle,
		TimeStep:        DefaultTimeStep,
		UseInnerSurface: false,
	}
}

// Validate checks the sampling preconditions.
func (hp Hyperparameters) Validate() error {
	if hp.PointsInCircle <= 0 {
		return invalid("points_in_circle", hp.PointsInCircle, "must be > 0")
	}
	if !(hp.TimeStep > 0) || math.IsInf(hp.TimeStep, 1) {
		return invalid("time_step", hp.TimeStep, "must be a finite value > 0")
	}
	return nil
}

// Validate checks the trait preconditions.
func (tr Traits) Validate() error {
	if !(tr.T > 0) || math.IsInf(tr.T, 1) {
		return invalid("t", tr.T, "must be a finite value > 0")
	}
	if tr.Length != nil {
		l := *tr.Length
		if !(l > 0) || math.IsInf(l, 1) {
			return invalid("length", l, "must be a finite value > 0 when set")
		}
	}
	return nil
}

// WithLength returns a copy of tr rescaled to length l.
func (tr Traits) WithLength(l float64) Traits {
	tr.Length = &l
	return tr
}

// HyperparametersFromMap reads the named hyperparameter keys from m.
// Unknown keys are ignored and missing keys keep their defaults.
func HyperparametersFromMap(m map[string]any) (Hyperparameters, error) {
	hp := DefaultHyperparameters()
	if v, ok := m["points_in_circle"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return hp, invalid("points_in_circle", v, err.Error())
		}
		hp.PointsInCircle = n
	}
	if v, ok := m["time_step"]; ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return hp, invalid("time_step", v, err.Error())
		}
		hp.TimeStep = f
	}
	if v, ok := m["use_inner_surface"]; ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return hp, invalid("use_inner_surface", v, err.Error())
		}
		hp.UseInnerSurface = b
	}
	return hp, nil
}

// TraitKeys are the required trait names, in record order. "length" is
// optional and not listed.
var TraitKeys = []string{
	"b", "d", "z", "a", "phi", "psi",
	"c_depth", "c_n", "n_depth", "n",
	"t", "eps", "h_0",
}

// TraitsFromMap reads a flat set of named trait values, as found in a
// dataset row. Every trait except "length" is required. A missing, nil or
// blank "length" disables rescaling.
func TraitsFromMap(m map[string]any) (Traits, error) {
	var tr Traits
	dst := []*float64{
		&tr.B, &tr.D, &tr.Z, &tr.A, &tr.Phi, &tr.Psi,
		&tr.CDepth, &tr.CN, &tr.NDepth, &tr.N,
		&tr.T, &tr.Eps, &tr.H0,
	}
	for i, key := range TraitKeys {
		v, ok := m[key]
		if !ok {
			return tr, fmt.Errorf("missing trait %q: %w", key, ErrInvalidParameter)
		}
		x, err := cast.ToFloat64E(v)
		if err != nil {
			return tr, invalid(key, v, err.Error())
		}
		*dst[i] = x
	}

	if v, ok := m["length"]; ok && v != nil {
		if s, isStr := v.(string); isStr && s == "" {
			return tr, nil
		}
		l, err := cast.ToFloat64E(v)
		if err != nil {
			return tr, invalid("length", v, err.Error())
		}
		tr.Length = &l
	}
	return tr, nil
}
