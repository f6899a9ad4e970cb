// Package config handles shellgen configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/morphospace/pkg/formats"
	"github.com/Faultbox/morphospace/pkg/shell"
)

// Config holds all generator settings.
type Config struct {
	Shell   shell.Hyperparameters `yaml:"shell" toml:"shell"`
	Traits  shell.Traits          `yaml:"traits" toml:"traits"`
	Output  OutputConfig          `yaml:"output" toml:"output"`
	Batch   BatchConfig           `yaml:"batch" toml:"batch"`
	Logging LoggingConfig         `yaml:"logging" toml:"logging"`
}

// OutputConfig holds mesh output settings.
type OutputConfig struct {
	Dir    string `yaml:"dir" toml:"dir"`
	Format string `yaml:"format" toml:"format"` // obj, stl or glb
}

// BatchConfig holds dataset batch settings.
type BatchConfig struct {
	Workers  int  `yaml:"workers" toml:"workers"`
	FailFast bool `yaml:"fail_fast" toml:"fail_fast"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
	JSON    bool   `yaml:"json" toml:"json"`
}

// DefaultTraits is the specimen generated when no traits are given.
func DefaultTraits() shell.Traits {
	return shell.Traits{
		B: 0.2, D: 1.65, Z: 0, A: 1, Phi: 0, Psi: 0,
		CDepth: 0.1, CN: 70, NDepth: 0, N: 0,
		T: 20, Eps: 0.8, H0: 0.1,
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shell:  shell.DefaultHyperparameters(),
		Traits: DefaultTraits(),
		Output: OutputConfig{
			Dir:    "out",
			Format: string(formats.FormatOBJ),
		},
		Batch: BatchConfig{
			Workers:  4,
			FailFast: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that cannot be fixed up silently.
func (c *Config) Validate() error {
	if _, err := formats.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be > 0, got %d", c.Batch.Workers)
	}
	if err := c.Shell.Validate(); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}
