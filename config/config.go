// Package config provides configuration loading and management for the
// converter.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	ReportText     = "text"
	ReportMarkdown = "markdown"
	ReportHTML     = "html"
)

// Config represents the complete converter configuration
type Config struct {
	Kinetics KineticsConfig `yaml:"kinetics"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Species  SpeciesConfig  `yaml:"species"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	NATS     NATSConfig     `yaml:"nats"`
	Watch    WatchConfig    `yaml:"watch"`
}

// KineticsConfig locates the kinetic mechanism
type KineticsConfig struct {
	// Folder is the preprocessed OpenSMOKE++ kinetics folder used to check species
	Folder string `yaml:"folder"`
	// RemoteFolder is written into the dictionaries instead of Folder when the
	// simulations run on another machine
	RemoteFolder string `yaml:"remote_folder"`
}

// InputConfig selects the ReSpecTh files to convert
type InputConfig struct {
	// Folder is the root the patterns are resolved against (default: current directory)
	Folder string `yaml:"folder"`
	// Patterns are doublestar globs relative to Folder
	Patterns []string `yaml:"patterns"`
}

// OutputConfig configures where dictionaries are written
type OutputConfig struct {
	// Folder receives one sub-folder per converted file
	Folder string `yaml:"folder"`
	// RemoteFolder replaces Folder in the @OutputFolder entries
	RemoteFolder string `yaml:"remote_folder"`
}

// SpeciesConfig configures species name checks
type SpeciesConfig struct {
	// Database is an optional XML alias database
	Database string `yaml:"database"`
	// CaseSensitive makes mechanism lookups case sensitive (default: false)
	CaseSensitive bool `yaml:"case_sensitive"`
}

// ReportConfig configures the batch report
type ReportConfig struct {
	// File is the report path, relative to the output folder unless absolute
	File string `yaml:"file"`
	// Format is one of text, markdown, html
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus textfile export
type MetricsConfig struct {
	// File is the textfile path (empty = disabled)
	File string `yaml:"file"`
}

// NATSConfig configures conversion event publishing
type NATSConfig struct {
	// URL is the NATS server URL (empty = disabled)
	URL string `yaml:"url"`
	// Subject is the subject conversion events are published on
	Subject string `yaml:"subject"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long a file must stay unchanged before it is converted
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Folder:   "", // Current directory
			Patterns: []string{"**/*.xml"},
		},
		Output: OutputConfig{
			Folder: "output",
		},
		Report: ReportConfig{
			File:   "Report.txt",
			Format: ReportText,
		},
		NATS: NATSConfig{
			Subject: "respecth.conversions",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Folder == "" {
		return fmt.Errorf("output.folder is required")
	}
	if len(c.Input.Patterns) == 0 {
		return fmt.Errorf("input.patterns must not be empty")
	}
	if !slices.Contains([]string{ReportText, ReportMarkdown, ReportHTML}, c.Report.Format) {
		return fmt.Errorf("report.format must be one of text, markdown, html")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	return nil
}

// DictionaryKineticsFolder returns the kinetics folder written into the
// dictionaries.
func (c *Config) DictionaryKineticsFolder() string {
	if c.Kinetics.RemoteFolder != "" {
		return c.Kinetics.RemoteFolder
	}
	return c.Kinetics.Folder
}

// SimulationOutputFolder returns the @OutputFolder of the experiment stem.
func (c *Config) SimulationOutputFolder(stem string) string {
	root := c.Output.Folder
	if c.Output.RemoteFolder != "" {
		root = c.Output.RemoteFolder
	}
	return filepath.Join(root, stem)
}

// ReportPath returns the report file path.
func (c *Config) ReportPath() string {
	if filepath.IsAbs(c.Report.File) {
		return c.Report.File
	}
	return filepath.Join(c.Output.Folder, c.Report.File)
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Kinetics
	if other.Kinetics.Folder != "" {
		c.Kinetics.Folder = other.Kinetics.Folder
	}
	if other.Kinetics.RemoteFolder != "" {
		c.Kinetics.RemoteFolder = other.Kinetics.RemoteFolder
	}

	// Input
	if other.Input.Folder != "" {
		c.Input.Folder = other.Input.Folder
	}
	if len(other.Input.Patterns) > 0 {
		c.Input.Patterns = other.Input.Patterns
	}

	// Output
	if other.Output.Folder != "" {
		c.Output.Folder = other.Output.Folder
	}
	if other.Output.RemoteFolder != "" {
		c.Output.RemoteFolder = other.Output.RemoteFolder
	}

	// Species
	if other.Species.Database != "" {
		c.Species.Database = other.Species.Database
	}
	if other.Species.CaseSensitive {
		c.Species.CaseSensitive = true
	}

	// Report
	if other.Report.File != "" {
		c.Report.File = other.Report.File
	}
	if other.Report.Format != "" {
		c.Report.Format = other.Report.Format
	}

	// Metrics
	if other.Metrics.File != "" {
		c.Metrics.File = other.Metrics.File
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}
