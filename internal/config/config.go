package config

import (
	"fmt"
	"time"

	"github.com/yildizm/Koryaku/internal/sequencer"
)

// Config holds the complete application configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	Templates TemplatesConfig `yaml:"templates" json:"templates"`
	Timing    TimingConfig    `yaml:"timing" json:"timing"`
	Inputs    InputsConfig    `yaml:"inputs" json:"inputs"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Seed      uint64          `yaml:"seed" json:"seed"` // 0 picks a random seed
}

// TemplatesConfig configures where templates are loaded from
type TemplatesConfig struct {
	Source       string        `yaml:"source" json:"source"`               // file path or http(s) URL
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"` // bound on the single fetch attempt
}

// TimingConfig configures the presentation delays
type TimingConfig struct {
	DotInterval     time.Duration `yaml:"dot_interval" json:"dot_interval"`
	MessageInterval time.Duration `yaml:"message_interval" json:"message_interval"`
	AnalysisBase    time.Duration `yaml:"analysis_base" json:"analysis_base"`
	PerRotation     time.Duration `yaml:"per_rotation" json:"per_rotation"`
	PerBigWin       time.Duration `yaml:"per_big_win" json:"per_big_win"`
	ComplexityCap   time.Duration `yaml:"complexity_cap" json:"complexity_cap"`
	AnalysisJitter  time.Duration `yaml:"analysis_jitter" json:"analysis_jitter"`
	RevealDelay     time.Duration `yaml:"reveal_delay" json:"reveal_delay"`
	RevealJitter    time.Duration `yaml:"reveal_jitter" json:"reveal_jitter"`
	CopyConfirm     time.Duration `yaml:"copy_confirm" json:"copy_confirm"`
}

// InputsConfig lists the options offered by the selector inputs
type InputsConfig struct {
	Symbols []string `yaml:"symbols" json:"symbols"` // top/middle/bottom reel symbols
	Areas   []string `yaml:"areas" json:"areas"`     // area positions
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Theme         string `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	NoEmoji       bool   `yaml:"no_emoji" json:"no_emoji"`
	LogFile       string `yaml:"log_file" json:"log_file"` // where the TUI writes logs; empty discards
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	timing := sequencer.DefaultTiming()

	return &Config{
		Version: "1.0",
		Templates: TemplatesConfig{
			Source:       "templates.csv",
			FetchTimeout: 10 * time.Second,
		},
		Timing: TimingConfig{
			DotInterval:     timing.DotInterval,
			MessageInterval: timing.MessageInterval,
			AnalysisBase:    timing.AnalysisBase,
			PerRotation:     timing.PerRotation,
			PerBigWin:       timing.PerBigWin,
			ComplexityCap:   timing.ComplexityCap,
			AnalysisJitter:  timing.AnalysisJitter,
			RevealDelay:     timing.RevealDelay,
			RevealJitter:    timing.RevealJitter,
			CopyConfirm:     1500 * time.Millisecond,
		},
		Inputs: InputsConfig{
			Symbols: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
			Areas:   []string{"top", "center", "bottom"},
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Theme:         "default",
		},
	}
}

// SequencerTiming converts the timing section for the sequencer
func (c *Config) SequencerTiming() sequencer.Timing {
	return sequencer.Timing{
		DotInterval:     c.Timing.DotInterval,
		MessageInterval: c.Timing.MessageInterval,
		AnalysisBase:    c.Timing.AnalysisBase,
		PerRotation:     c.Timing.PerRotation,
		PerBigWin:       c.Timing.PerBigWin,
		ComplexityCap:   c.Timing.ComplexityCap,
		AnalysisJitter:  c.Timing.AnalysisJitter,
		RevealDelay:     c.Timing.RevealDelay,
		RevealJitter:    c.Timing.RevealJitter,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateTemplatesConfig(); err != nil {
		return err
	}
	if err := c.validateTimingConfig(); err != nil {
		return err
	}
	if err := c.validateInputsConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

// validateTemplatesConfig validates template source settings
func (c *Config) validateTemplatesConfig() error {
	if c.Templates.Source == "" {
		return fmt.Errorf("templates.source must not be empty")
	}
	if c.Templates.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must be non-negative")
	}
	return nil
}

// validateTimingConfig validates presentation delays
func (c *Config) validateTimingConfig() error {
	if c.Timing.DotInterval <= 0 {
		return fmt.Errorf("dot_interval must be greater than 0")
	}
	if c.Timing.MessageInterval <= 0 {
		return fmt.Errorf("message_interval must be greater than 0")
	}

	nonNegative := []struct {
		name  string
		value time.Duration
	}{
		{"analysis_base", c.Timing.AnalysisBase},
		{"per_rotation", c.Timing.PerRotation},
		{"per_big_win", c.Timing.PerBigWin},
		{"complexity_cap", c.Timing.ComplexityCap},
		{"analysis_jitter", c.Timing.AnalysisJitter},
		{"reveal_delay", c.Timing.RevealDelay},
		{"reveal_jitter", c.Timing.RevealJitter},
		{"copy_confirm", c.Timing.CopyConfirm},
	}
	for _, d := range nonNegative {
		if d.value < 0 {
			return fmt.Errorf("%s must be non-negative", d.name)
		}
	}
	return nil
}

// validateInputsConfig validates selector options
func (c *Config) validateInputsConfig() error {
	if len(c.Inputs.Symbols) == 0 {
		return fmt.Errorf("inputs.symbols must list at least one symbol")
	}
	if len(c.Inputs.Areas) == 0 {
		return fmt.Errorf("inputs.areas must list at least one area")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}
