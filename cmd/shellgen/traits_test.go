package main

import (
	"flag"
	"strings"
	"testing"

	"github.com/Faultbox/morphospace/pkg/shell"
)

func TestTraitFlagsApply(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	tf := registerTraitFlags(fs)
	if err := fs.Parse([]string{"-b", "0.3", "-c-n", "12", "-length", "4"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	base := shell.Traits{B: 0.1, D: 2, T: 10}
	got := tf.apply(fs, base)

	if got.B != 0.3 {
		t.Errorf("expected b 0.3, got %f", got.B)
	}
	if got.CN != 12 {
		t.Errorf("expected c_n 12, got %f", got.CN)
	}
	if got.D != 2 || got.T != 10 {
		t.Errorf("unset flags should keep base values, got d=%f t=%f", got.D, got.T)
	}
	if got.Length == nil || *got.Length != 4 {
		t.Errorf("expected length 4, got %v", got.Length)
	}
	if base.Length != nil {
		t.Error("base traits must not be modified")
	}
}

func TestBuildShell(t *testing.T) {
	tr := shell.Traits{B: 0.2, D: 1.65, A: 1, CDepth: 0.1, CN: 70, T: 1, Eps: 0.8, H0: 0.1}
	res, grid, err := buildShell(tr, shell.Hyperparameters{PointsInCircle: 4, TimeStep: 0.5, UseInnerSurface: true})
	if err != nil {
		t.Fatalf("buildShell failed: %v", err)
	}
	if res.FaceCount() != 12 {
		t.Errorf("expected 12 quads, got %d", res.FaceCount())
	}
	if len(grid.Aperture) != 8 {
		t.Errorf("expected aperture of 8 points, got %d", len(grid.Aperture))
	}

	if _, _, err := buildShell(shell.Traits{}, shell.DefaultHyperparameters()); err == nil {
		t.Error("expected error for zero spiral extent")
	}
}

func TestMissingArgumentsReturnUsage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	commands := map[string]func([]string) error{
		"generate": cmdGenerate,
		"batch":    cmdBatch,
	}
	for name, run := range commands {
		err := run(nil)
		if err == nil {
			t.Errorf("%s: expected usage error", name)
			continue
		}
		if !strings.Contains(err.Error(), "Usage: shellgen "+name) {
			t.Errorf("%s: unexpected error %q", name, err)
		}
	}
}
