// Package config provides the configuration schema, loader, and validation
// for the kcstape encoder.
package config

import (
	"errors"
	"fmt"

	"github.com/cskordis/kcstape/pkg/kcs"
)

// LogLevel controls log verbosity for the encoder run.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for kcstape.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// SourceDir is the directory scanned for *.txt BASIC sources.
	SourceDir string `yaml:"source_dir"`

	// TargetDir is the directory the wav/ output tree is created under.
	TargetDir string `yaml:"target_dir"`

	// Alphabetize groups output files into single-letter subdirectories
	// keyed on the uppercased first character of the file name.
	Alphabetize bool `yaml:"alphabetize"`

	// Workers caps how many files are encoded concurrently. 0 means one
	// worker per CPU.
	Workers int `yaml:"workers"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// Encoding holds the waveform parameters shared by every file.
	Encoding EncodingConfig `yaml:"encoding"`
}

// EncodingConfig mirrors [kcs.Params] with YAML tags.
type EncodingConfig struct {
	// SampleRate is the PCM sample rate in Hz.
	SampleRate int `yaml:"sample_rate"`

	// OneFreq is the tone frequency in Hz for a 1 bit.
	OneFreq int `yaml:"one_freq"`

	// ZeroFreq is the tone frequency in Hz for a 0 bit.
	ZeroFreq int `yaml:"zero_freq"`

	// Amplitude is the square wave amplitude in sample units.
	Amplitude int `yaml:"amplitude"`

	// Center is the DC offset of the waveform.
	Center int `yaml:"center"`

	// LeaderSeconds is the nominal carrier duration before the data.
	LeaderSeconds int `yaml:"leader_seconds"`

	// StartBit is the bit value (0 or 1) framed before every data byte.
	StartBit int `yaml:"start_bit"`

	// Parity selects odd or even parity.
	Parity kcs.ParityMode `yaml:"parity"`
}

// Params converts e to the encoder's parameter struct.
func (e EncodingConfig) Params() kcs.Params {
	return kcs.Params{
		SampleRate:    e.SampleRate,
		OneFreq:       e.OneFreq,
		ZeroFreq:      e.ZeroFreq,
		Amplitude:     e.Amplitude,
		Center:        e.Center,
		LeaderSeconds: e.LeaderSeconds,
		StartBit:      e.StartBit,
		Parity:        e.Parity,
	}
}

// Default returns the configuration used when no config file is given:
// current directory in and out, one worker per CPU, and the original Cosmac
// ELF II encoding parameters. [Load] decodes the YAML file over this value,
// so absent keys keep their defaults while explicit zeros stick.
func Default() *Config {
	p := kcs.DefaultParams()
	return &Config{
		SourceDir: ".",
		TargetDir: ".",
		LogLevel:  LogInfo,
		Encoding: EncodingConfig{
			SampleRate:    p.SampleRate,
			OneFreq:       p.OneFreq,
			ZeroFreq:      p.ZeroFreq,
			Amplitude:     p.Amplitude,
			Center:        p.Center,
			LeaderSeconds: p.LeaderSeconds,
			StartBit:      p.StartBit,
			Parity:        p.Parity,
		},
	}
}

// Validate checks that cfg contains a coherent set of values, including the
// full encoding parameter validation. It returns a joined error listing all
// failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.SourceDir == "" {
		errs = append(errs, errors.New("source_dir is required"))
	}
	if cfg.TargetDir == "" {
		errs = append(errs, errors.New("target_dir is required"))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", cfg.Workers))
	}
	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}
	if err := cfg.Encoding.Params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("encoding: %w", err))
	}

	return errors.Join(errs...)
}
