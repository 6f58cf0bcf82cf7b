// =============================================================================
// Delimited Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration from
// a YAML file and applying defaults. Command-line flags override the values
// loaded here (see cmd/).
//
// EXAMPLE (config.yaml):
//   input_dir: ./data
//   output_dir: ./output
//   file_extensions: [".dat", ".log", ".txt"]
//   output_format: csv        # csv | excel
//   has_headers: false
//   delimiter: ""             # empty = detect; or ",", "tab", "pipe", ...
//   encoding: utf-8
//   row_policy: pad           # pad | truncate | reject
//   log_level: info
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/delimited-converter/internal/delimiter"
	"github.com/ginjaninja78/delimited-converter/internal/types"
	"github.com/ginjaninja78/delimited-converter/internal/validation"
	"github.com/ginjaninja78/delimited-converter/pkg/utils"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the folder scanned by the batch command.
	// Default: "data"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the folder converted files are written to.
	// Default: "output"
	OutputDir string `yaml:"output_dir"`

	// FileExtensions selects input files in batch mode.
	// Default: [".dat", ".log", ".txt"]
	FileExtensions []string `yaml:"file_extensions"`

	// Recursive makes the batch command scan subdirectories.
	// Default: false
	Recursive bool `yaml:"recursive"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// HasHeaders treats the first row of each file as the header row.
	// Default: false
	HasHeaders bool `yaml:"has_headers"`

	// Delimiter is the input field separator. Empty means auto-detect.
	// Accepts a single character or a name: "tab", "pipe", "semicolon",
	// "comma", "space".
	Delimiter string `yaml:"delimiter"`

	// Encoding is the input text encoding.
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`

	// SampleLines is the number of lines inspected by delimiter detection.
	// Default: 5
	SampleLines int `yaml:"sample_lines"`

	// RowPolicy handles rows with a mismatched cell count: pad, truncate, reject.
	// Default: "pad"
	RowPolicy string `yaml:"row_policy"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat is the batch output format: "csv" or "excel".
	// Default: "csv"
	OutputFormat string `yaml:"output_format"`

	// CSVDelimiter is the separator written to CSV output.
	// Default: ","
	CSVDelimiter string `yaml:"csv_delimiter"`

	// SheetName is the worksheet name used for Excel output.
	// Default: "Sheet1"
	SheetName string `yaml:"sheet_name"`

	// WriteSummary writes a summary report to the output folder after a batch.
	// Default: false
	WriteSummary bool `yaml:"write_summary"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files converted at once.
	// Set to 1 for sequential processing.
	// Default: 1
	MaxConcurrency int `yaml:"max_concurrency"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFile is an optional file that receives log output in addition to stderr.
	LogFile string `yaml:"log_file"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - optional: When true, a missing file yields the defaults instead of an error.
//
// RETURNS:
//   - The loaded configuration with defaults applied.
//   - An error if the file cannot be read or parsed, or a value is invalid.
func Load(configPath string, optional bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "data"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if len(cfg.FileExtensions) == 0 {
		cfg.FileExtensions = append([]string(nil), utils.DefaultExtensions...)
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if cfg.SampleLines == 0 {
		cfg.SampleLines = delimiter.DefaultSampleLines
	}
	if cfg.RowPolicy == "" {
		cfg.RowPolicy = string(types.RowPolicyPad)
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = string(types.FormatCSV)
	}
	if cfg.CSVDelimiter == "" {
		cfg.CSVDelimiter = ","
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks every value that has a closed set of options.
func (c *Config) Validate() error {
	if _, err := delimiter.Parse(c.Delimiter); err != nil {
		return fmt.Errorf("delimiter: %w", err)
	}
	if d, err := delimiter.Parse(c.CSVDelimiter); err != nil || d == delimiter.Whitespace {
		return fmt.Errorf("csv_delimiter: invalid value %q", c.CSVDelimiter)
	}
	if _, err := validation.ParsePolicy(c.RowPolicy); err != nil {
		return fmt.Errorf("row_policy: %w", err)
	}
	if _, ok := types.ParseFormat(c.OutputFormat); !ok {
		return fmt.Errorf("output_format: unknown format %q (want csv or excel)", c.OutputFormat)
	}
	if c.SampleLines < 0 {
		return fmt.Errorf("sample_lines must not be negative")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================
// These return the parsed form of string settings. They assume Validate has
// passed.

// InputDelimiter returns the configured input delimiter, 0 for auto-detect.
func (c *Config) InputDelimiter() rune {
	d, _ := delimiter.Parse(c.Delimiter)
	return d
}

// OutputDelimiter returns the CSV output delimiter.
func (c *Config) OutputDelimiter() rune {
	d, _ := delimiter.Parse(c.CSVDelimiter)
	return d
}

// Policy returns the row policy.
func (c *Config) Policy() types.RowPolicy {
	p, _ := validation.ParsePolicy(c.RowPolicy)
	return p
}

// Format returns the batch output format.
func (c *Config) Format() types.Format {
	f, _ := types.ParseFormat(c.OutputFormat)
	return f
}
