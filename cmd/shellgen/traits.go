package main

import (
	"flag"

	"github.com/Faultbox/morphospace/pkg/shell"
)

// traitFlags holds per-trait overrides; only flags set on the command line
// replace configured values.
type traitFlags struct {
	values map[string]*float64
}

var traitFlagNames = []struct {
	flag  string
	usage string
}{
	{"b", "Spiral growth rate"},
	{"d", "Spiral radius scale"},
	{"z", "Whorl translation"},
	{"a", "Aperture elongation"},
	{"phi", "Aperture orientation (radians)"},
	{"psi", "Aperture roll (radians)"},
	{"c-depth", "Axial ribbing amplitude"},
	{"c-n", "Axial ribbing frequency"},
	{"n-depth", "Radial ribbing amplitude"},
	{"n", "Radial ribbing frequency"},
	{"t", "Spiral extent (radians)"},
	{"eps", "Wall thickness exponent"},
	{"h0", "Base wall thickness"},
	{"length", "Rescale to this extent along x"},
}

func registerTraitFlags(fs *flag.FlagSet) *traitFlags {
	tf := &traitFlags{values: map[string]*float64{}}
	for _, f := range traitFlagNames {
		tf.values[f.flag] = fs.Float64(f.flag, 0, f.usage)
	}
	return tf
}

// apply copies explicitly set trait flags over base.
func (tf *traitFlags) apply(fs *flag.FlagSet, base shell.Traits) shell.Traits {
	tr := base
	dst := map[string]*float64{
		"b": &tr.B, "d": &tr.D, "z": &tr.Z, "a": &tr.A,
		"phi": &tr.Phi, "psi": &tr.Psi,
		"c-depth": &tr.CDepth, "c-n": &tr.CN,
		"n-depth": &tr.NDepth, "n": &tr.N,
		"t": &tr.T, "eps": &tr.Eps, "h0": &tr.H0,
	}
	fs.Visit(func(f *flag.Flag) {
		v, ok := tf.values[f.Name]
		if !ok {
			return
		}
		if f.Name == "length" {
			tr = tr.WithLength(*v)
			return
		}
		*dst[f.Name] = *v
	})
	return tr
}
