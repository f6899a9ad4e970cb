package config

import (
	"flag"
	"runtime"
)

// Flags are the command-line overrides shared by every subcommand.
type Flags struct {
	Config   string
	Debug    bool
	Points   int
	Step     float64
	Inner    bool
	NoInner  bool
	Format   string
	Workers  int
	LogFile  string
	JSONLogs bool
}

// Register adds the shared flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file (.yaml or .toml)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&f.Points, "points", 0, "Points per aperture ring")
	fs.Float64Var(&f.Step, "step", 0, "Spiral time step")
	fs.BoolVar(&f.Inner, "inner", false, "Generate the inner wall surface")
	fs.BoolVar(&f.NoInner, "no-inner", false, "Skip the inner wall surface")
	fs.StringVar(&f.Format, "format", "", "Output format: obj, stl or glb")
	fs.IntVar(&f.Workers, "workers", 0, "Batch workers (0 = config, -1 = all CPUs)")
	fs.StringVar(&f.LogFile, "log-file", "", "Also log to this file")
	fs.BoolVar(&f.JSONLogs, "json-logs", false, "Log JSON lines")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Points > 0 {
		cfg.Shell.PointsInCircle = f.Points
	}
	if f.Step > 0 {
		cfg.Shell.TimeStep = f.Step
	}
	if f.Inner {
		cfg.Shell.UseInnerSurface = true
	}
	if f.NoInner {
		cfg.Shell.UseInnerSurface = false
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.Workers > 0 {
		cfg.Batch.Workers = f.Workers
	} else if f.Workers < 0 {
		cfg.Batch.Workers = runtime.NumCPU()
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.JSONLogs {
		cfg.Logging.JSON = true
	}
}
