package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.koryaku.yaml",               // Project-specific config (highest priority)
	"~/.config/koryaku/config.yaml", // User config
	"/etc/koryaku/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables (KORYAKU_*)
// 3. ./.koryaku.yaml
// 4. ~/.config/koryaku/config.yaml
// 5. /etc/koryaku/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Templates
		"KORYAKU_TEMPLATES_SOURCE":        func(v string) error { config.Templates.Source = v; return nil },
		"KORYAKU_TEMPLATES_FETCH_TIMEOUT": func(v string) error { return parseDuration(v, &config.Templates.FetchTimeout) },

		// Timing
		"KORYAKU_TIMING_ANALYSIS_BASE":   func(v string) error { return parseDuration(v, &config.Timing.AnalysisBase) },
		"KORYAKU_TIMING_ANALYSIS_JITTER": func(v string) error { return parseDuration(v, &config.Timing.AnalysisJitter) },
		"KORYAKU_TIMING_REVEAL_DELAY":    func(v string) error { return parseDuration(v, &config.Timing.RevealDelay) },
		"KORYAKU_TIMING_REVEAL_JITTER":   func(v string) error { return parseDuration(v, &config.Timing.RevealJitter) },
		"KORYAKU_TIMING_COPY_CONFIRM":    func(v string) error { return parseDuration(v, &config.Timing.CopyConfirm) },

		// Output
		"KORYAKU_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"KORYAKU_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"KORYAKU_OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		"KORYAKU_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"KORYAKU_OUTPUT_NO_EMOJI":       func(v string) error { return parseBool(v, &config.Output.NoEmoji) },
		"KORYAKU_OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },

		"KORYAKU_SEED": func(v string) error { return parseUint(v, &config.Seed) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Comma-separated option lists
	if symbols := os.Getenv("KORYAKU_INPUTS_SYMBOLS"); symbols != "" {
		config.Inputs.Symbols = splitList(symbols)
	}
	if areas := os.Getenv("KORYAKU_INPUTS_AREAS"); areas != "" {
		config.Inputs.Areas = splitList(areas)
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination.
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}

	mergeTemplatesConfig(&dst.Templates, &src.Templates)
	mergeTimingConfig(&dst.Timing, &src.Timing)
	mergeInputsConfig(&dst.Inputs, &src.Inputs)
	mergeOutputConfig(&dst.Output, &src.Output)
}

func mergeTemplatesConfig(dst, src *TemplatesConfig) {
	if src.Source != "" {
		dst.Source = src.Source
	}
	mergeDuration(&dst.FetchTimeout, src.FetchTimeout)
}

func mergeTimingConfig(dst, src *TimingConfig) {
	mergeDuration(&dst.DotInterval, src.DotInterval)
	mergeDuration(&dst.MessageInterval, src.MessageInterval)
	mergeDuration(&dst.AnalysisBase, src.AnalysisBase)
	mergeDuration(&dst.PerRotation, src.PerRotation)
	mergeDuration(&dst.PerBigWin, src.PerBigWin)
	mergeDuration(&dst.ComplexityCap, src.ComplexityCap)
	mergeDuration(&dst.AnalysisJitter, src.AnalysisJitter)
	mergeDuration(&dst.RevealDelay, src.RevealDelay)
	mergeDuration(&dst.RevealJitter, src.RevealJitter)
	mergeDuration(&dst.CopyConfirm, src.CopyConfirm)
}

func mergeInputsConfig(dst, src *InputsConfig) {
	if len(src.Symbols) > 0 {
		dst.Symbols = src.Symbols
	}
	if len(src.Areas) > 0 {
		dst.Areas = src.Areas
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	// A false in a file cannot be told apart from an omitted key, so
	// booleans only switch on here; env overrides can switch them off.
	mergeIfSet(&dst.Verbose, src.Verbose)
	mergeIfSet(&dst.NoEmoji, src.NoEmoji)
}

// mergeDuration copies non-zero durations. Negative values are kept so Validate rejects them.
func mergeDuration(dst *time.Duration, src time.Duration) {
	if src != 0 {
		*dst = src
	}
}

func mergeIfSet(dst *bool, src bool) {
	if src {
		*dst = true
	}
}

// Type conversion helpers

func parseUint(s string, dst *uint64) error {
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
