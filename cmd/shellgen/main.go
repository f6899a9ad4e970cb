// shellgen generates parametric mollusk shell meshes from trait parameters.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/morphospace/internal/batch"
	"github.com/Faultbox/morphospace/internal/config"
	"github.com/Faultbox/morphospace/internal/dataset"
	"github.com/Faultbox/morphospace/internal/logger"
	"github.com/Faultbox/morphospace/pkg/formats"
	"github.com/Faultbox/morphospace/pkg/mesh"
	"github.com/Faultbox/morphospace/pkg/shell"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "generate", "gen":
		err = cmdGenerate(args)
	case "batch":
		err = cmdBatch(args)
	case "info":
		err = cmdInfo(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Debug("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}

// usageError reports missing positional arguments.
func usageError(usage string) error {
	return fmt.Errorf("missing arguments\nUsage: %s", usage)
}

func printUsage() {
	fmt.Println(`shellgen - parametric shell mesh generator

Usage:
  shellgen <command> [options]

Commands:
  generate [traits] <out.obj|stl|glb>   Generate one shell mesh
  batch <dataset.csv> [output_dir]       Generate one mesh per dataset row
  info [traits]                          Print grid and mesh statistics
  config [-save] [path]                  Write the effective configuration

Trait flags:
  -b -d -z -a -phi -psi -c-depth -c-n -n-depth -n -t -eps -h0 -length

Common flags:
  -config file  -points N  -step F  -inner  -no-inner  -format F
  -workers N  -debug  -log-file file  -json-logs

Examples:
  shellgen generate -t 20 -inner shell.glb
  shellgen batch -workers 8 -format stl traits.csv meshes
  shellgen info -b 0.15 -z 2.4 -t 12`)
}

// setup parses flags, loads config and starts logging.
func setup(name string, args []string, withTraits bool) (*config.Config, *flag.FlagSet, *traitFlags, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var common config.Flags
	common.Register(fs)

	var tf *traitFlags
	if withTraits {
		tf = registerTraitFlags(fs)
	}
	fs.Parse(args)

	cfg, err := config.Load(&common)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.JSON); err != nil {
		return nil, nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger.Debug("config loaded",
		zap.String("command", name),
		zap.Int("points_in_circle", cfg.Shell.PointsInCircle),
		zap.Float64("time_step", cfg.Shell.TimeStep),
		zap.Bool("inner", cfg.Shell.UseInnerSurface),
		zap.String("format", cfg.Output.Format))
	return cfg, fs, tf, nil
}

func cmdGenerate(args []string) error {
	cfg, fs, tf, err := setup("generate", args, true)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usageError("shellgen generate [flags] <out.obj|stl|glb>")
	}
	out := fs.Arg(0)

	format, err := formats.FormatFromPath(out)
	if err != nil {
		if filepath.Ext(out) != "" {
			return err
		}
		format = formats.Format(cfg.Output.Format)
		out += format.Ext()
	}

	tr := tf.apply(fs, cfg.Traits)
	res, _, err := buildShell(tr, cfg.Shell)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(out), filepath.Ext(out))
	if err := formats.Save(out, format, res, name); err != nil {
		return err
	}

	logger.Info("mesh written",
		zap.String("path", out),
		zap.Int("vertices", res.VertexCount()),
		zap.Int("faces", res.FaceCount()))
	fmt.Printf("Wrote %s (%d vertices, %d quads)\n", out, res.VertexCount(), res.FaceCount())
	return nil
}

func cmdBatch(args []string) error {
	cfg, fs, _, err := setup("batch", args, false)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usageError("shellgen batch [flags] <dataset.csv> [output_dir]")
	}

	samples, err := dataset.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := dataset.Invalid(samples); err != nil {
		logger.Warn("dataset has invalid rows", zap.Error(err))
	}
	outDir := cfg.Output.Dir
	if fs.NArg() > 1 {
		outDir = fs.Arg(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := batch.Run(ctx, samples, batch.Options{
		Hyperparameters: cfg.Shell,
		OutputDir:       outDir,
		Format:          formats.Format(cfg.Output.Format),
		Workers:         cfg.Batch.Workers,
		FailFast:        cfg.Batch.FailFast,
	})
	if report != nil {
		for _, r := range report.Results {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "  %-30s FAILED: %v\n", r.Sample.Name, r.Err)
			}
		}
		fmt.Fprintf(os.Stderr, "\nWrote %d of %d meshes to %s in %s\n",
			report.Succeeded(), len(samples), outDir, report.Elapsed.Round(time.Millisecond))
	}
	return err
}

func cmdInfo(args []string) error {
	cfg, fs, tf, err := setup("info", args, true)
	if err != nil {
		return err
	}

	tr := tf.apply(fs, cfg.Traits)
	res, grid, err := buildShell(tr, cfg.Shell)
	if err != nil {
		return err
	}

	counts := map[shell.DegeneracyKind]int{}
	for _, w := range grid.Warnings {
		counts[w.Kind]++
	}
	lm := res.Landmarks()

	fmt.Printf("Rings:          %d\n", res.Metadata.NumRings)
	fmt.Printf("Points/ring:    %d\n", res.Metadata.PointsPerRing)
	fmt.Printf("Inner surface:  %v\n", grid.HasInner())
	fmt.Printf("Vertices:       %d\n", res.VertexCount())
	fmt.Printf("Quads:          %d\n", res.FaceCount())
	fmt.Printf("Scale:          %.6g\n", grid.Scale)
	fmt.Printf("Extent (%s):     %.6g\n", shell.LengthAxis, grid.Extent(shell.LengthAxis))
	fmt.Printf("Apex:           (%.4f, %.4f, %.4f)\n", lm.Apex.X, lm.Apex.Y, lm.Apex.Z)
	fmt.Printf("Aperture:       (%.4f, %.4f, %.4f)\n", lm.Aperture.X, lm.Aperture.Y, lm.Aperture.Z)
	fmt.Println()
	fmt.Println("Regions:")
	for _, reg := range res.Regions {
		fmt.Printf("  %-14s %6d vertices %6d quads\n", reg.Kind, reg.VertexCount, reg.FaceCount)
	}
	if len(grid.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Inner surface safeguards:")
		for _, kind := range []shell.DegeneracyKind{shell.DegenerateAperture, shell.InvalidThickness, shell.WallTooThick} {
			if counts[kind] > 0 {
				fmt.Printf("  %-20s %d\n", kind, counts[kind])
			}
		}
	}
	return nil
}

func cmdConfig(args []string) error {
	var save bool
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	fs.BoolVar(&save, "save", false, "Write to the user config directory")
	var common config.Flags
	common.Register(fs)
	fs.Parse(args)

	cfg, err := config.Load(&common)
	if err != nil {
		return err
	}
	if save {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.UserConfigPath())
		return nil
	}
	if fs.NArg() > 0 {
		if err := cfg.SaveTo(fs.Arg(0)); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", fs.Arg(0))
		return nil
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	os.Stdout.Write(data)
	return nil
}

// buildShell runs the surface model and mesh builder for one specimen.
func buildShell(tr shell.Traits, hp shell.Hyperparameters) (*mesh.Result, *shell.SurfaceGrid, error) {
	grid, err := shell.Generate(tr, hp)
	if err != nil {
		return nil, nil, fmt.Errorf("generating surface: %w", err)
	}
	batch.LogWarnings(logger.Named("shell"), grid.Warnings)

	res, err := mesh.Build(grid)
	if err != nil {
		return nil, nil, fmt.Errorf("building mesh: %w", err)
	}
	return res, grid, nil
}
