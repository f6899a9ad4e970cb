package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/morphospace/internal/dataset"
	"github.com/Faultbox/morphospace/pkg/formats"
	"github.com/Faultbox/morphospace/pkg/shell"
)

func traits(t float64) shell.Traits {
	return shell.Traits{
		B: 0.2, D: 1.65, A: 1, CDepth: 0.1, CN: 70,
		T: t, Eps: 0.8, H0: 0.1,
	}
}

func testOptions(dir string) Options {
	return Options{
		Hyperparameters: shell.Hyperparameters{PointsInCircle: 8, TimeStep: 0.25, UseInnerSurface: true},
		OutputDir:       dir,
		Format:          formats.FormatOBJ,
		Workers:         3,
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	samples := []dataset.Sample{
		{Name: "Planorbis corneus", Traits: traits(6)},
		{Name: "broken", Traits: traits(0)},
		{Name: "Planorbis corneus", Traits: traits(3)},
		{Name: "scaled", Traits: traits(4).WithLength(2)},
	}

	core, logs := observer.New(zapcore.DebugLevel)
	opts := testOptions(dir)
	opts.Log = zap.New(core)

	report, err := Run(context.Background(), samples, opts)
	require.NoError(t, err)
	require.Len(t, report.Results, 4)

	assert.Equal(t, 1, report.Failures)
	assert.Equal(t, 3, report.Succeeded())

	assert.Equal(t, filepath.Join(dir, "Planorbis_corneus.obj"), report.Results[0].Path)
	assert.Equal(t, filepath.Join(dir, "Planorbis_corneus_2.obj"), report.Results[2].Path)
	assert.Equal(t, 24, report.Results[0].Metadata.NumRings)
	assert.Equal(t, 8, report.Results[0].Metadata.PointsPerRing)
	assert.Positive(t, report.Results[0].Warnings)

	bad := report.Results[1]
	assert.ErrorIs(t, bad.Err, shell.ErrInvalidParameter)
	assert.Empty(t, bad.Path)
	_, statErr := os.Stat(filepath.Join(dir, "broken.obj"))
	assert.True(t, os.IsNotExist(statErr), "failed sample must not leave a file")

	for _, i := range []int{0, 2, 3} {
		_, err := os.Stat(report.Results[i].Path)
		assert.NoError(t, err)
	}

	assert.ErrorIs(t, report.Errors(), shell.ErrInvalidParameter)
	assert.Equal(t, 1, logs.FilterMessage("sample failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("batch finished").Len())
	assert.NotZero(t, logs.FilterMessage("inner surface safeguard applied").Len())
}

func TestRunDatasetRowError(t *testing.T) {
	data := "species,b,d,z,a,phi,psi,c_depth,c_n,n_depth,n,t,eps,h_0\n" +
		"good1,0.2,1.65,0,1,0,0,0.1,70,0,0,3,0.8,0.1\n" +
		"blank_d,0.2,,0,1,0,0,0.1,70,0,0,3,0.8,0.1\n" +
		"good2,0.2,1.65,0,1,0,0,0.1,70,0,0,2,0.8,0.1\n"
	samples, err := dataset.Read(strings.NewReader(data))
	require.NoError(t, err)

	dir := t.TempDir()
	report, err := Run(context.Background(), samples, testOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failures)
	assert.Equal(t, 2, report.Succeeded())
	assert.FileExists(t, filepath.Join(dir, "good1.obj"))
	assert.FileExists(t, filepath.Join(dir, "good2.obj"))
	assert.NoFileExists(t, filepath.Join(dir, "blank_d.obj"))

	var rowErr *dataset.RowError
	require.ErrorAs(t, report.Results[1].Err, &rowErr)
	assert.Equal(t, 3, rowErr.Line)
}

func TestRunFailFast(t *testing.T) {
	samples := []dataset.Sample{
		{Name: "broken", Traits: traits(-1)},
		{Name: "fine", Traits: traits(2)},
	}
	opts := testOptions(t.TempDir())
	opts.Workers = 1
	opts.FailFast = true

	report, err := Run(context.Background(), samples, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, shell.ErrInvalidParameter)
	assert.Equal(t, 2, report.Failures)
	assert.ErrorIs(t, report.Results[1].Err, ErrSkipped)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	samples := []dataset.Sample{{Name: "a", Traits: traits(2)}, {Name: "b", Traits: traits(2)}}
	report, err := Run(ctx, samples, testOptions(t.TempDir()))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 2, report.Failures)
	for _, r := range report.Results {
		assert.ErrorIs(t, r.Err, ErrSkipped)
	}
}

func TestRunUnknownFormat(t *testing.T) {
	opts := testOptions(t.TempDir())
	opts.Format = "ply"
	_, err := Run(context.Background(), nil, opts)
	assert.ErrorIs(t, err, formats.ErrUnknownFormat)
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	var samples []dataset.Sample
	for i := range 6 {
		samples = append(samples, dataset.Sample{Name: "s", Traits: traits(2 + float64(i))})
	}

	read := func(workers int) [][]byte {
		opts := testOptions(t.TempDir())
		opts.Workers = workers
		report, err := Run(context.Background(), samples, opts)
		require.NoError(t, err)
		var out [][]byte
		for _, r := range report.Results {
			data, err := os.ReadFile(r.Path)
			require.NoError(t, err)
			out = append(out, data)
		}
		return out
	}
	assert.Equal(t, read(1), read(4))
}

func TestUniqueFileNames(t *testing.T) {
	samples := []dataset.Sample{
		{Name: "a"}, {Name: "a"}, {Name: "a_2"}, {Name: "../etc/passwd"}, {Name: "  "}, {Name: "A"},
	}
	got := uniqueFileNames(samples)
	want := []string{"a", "a_2", "a_2_2", "etc_passwd", "sample_0005", "A_3"}
	assert.Equal(t, want, got)
}
