// =============================================================================
// Ledger Extractor - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION FILE (config.yaml):
//
//   input_dirs:
//     - "./data/raw/Обороты по счету"
//     - "./data/raw/Остатки"
//   catalog_file: "./data/raw/Справочник.xlsx"
//   stock_marker: "Остатки"
//   output_dir: "./data/processed"
//   output_format: "csv"          # csv | xlsx
//   output_encoding: "utf-8"      # utf-8 | windows-1251
//   delimiter: ","
//   include_header: true
//   check_balances: true
//   max_concurrency: 4
//   log_level: "info"             # debug | info | warn | error
//   log_format: "text"            # text | json
//
// A missing file at the default location is not an error: the defaults are
// used. Every value can also be overridden on the command line.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputDirs are scanned for .xlsx workbooks when no paths are given on
	// the command line.
	InputDirs []string `yaml:"input_dirs"`

	// Recursive makes the input scan descend into subdirectories.
	// Default: true
	Recursive *bool `yaml:"recursive"`

	// CatalogFile is the reference catalog workbook. Only its base name is
	// used for classification; the path itself is added to the inputs.
	// Default: "Справочник.xlsx"
	CatalogFile string `yaml:"catalog_file"`

	// StockMarker is the prefix of directory or file names holding
	// stock-balance exports.
	// Default: "Остатки"
	StockMarker string `yaml:"stock_marker"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory where datasets and the summary are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// OutputFormat is "csv" or "xlsx".
	// Default: "csv"
	OutputFormat string `yaml:"output_format"`

	// OutputEncoding is "utf-8" or "windows-1251" (CSV only).
	// Default: "utf-8"
	OutputEncoding string `yaml:"output_encoding"`

	// Delimiter separates CSV fields.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// FileNameFormat names dataset files.
	// Placeholders: {kind}, {date}, {timestamp}, {uuid}
	// Default: "{kind}"
	FileNameFormat string `yaml:"file_name_format"`

	// IncludeHeader emits the header row once per dataset.
	// Default: true
	IncludeHeader *bool `yaml:"include_header"`

	// SummaryLog writes a plain-text run summary next to the datasets.
	// Default: true
	SummaryLog *bool `yaml:"summary_log"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// CheckBalances reports cashflow records that break
	// end = start + in - out.
	// Default: true
	CheckBalances *bool `yaml:"check_balances"`

	// MaxConcurrency is the maximum number of files extracted at once.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: Whether a missing file is an error. When false, a missing
//     file yields the defaults.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed, or validated.
func Load(configPath string, required bool) (*Config, error) {
	var config Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.Recursive == nil {
		config.Recursive = boolPtr(true)
	}
	if config.CatalogFile == "" {
		config.CatalogFile = "Справочник.xlsx"
	}
	if config.StockMarker == "" {
		config.StockMarker = "Остатки"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.OutputFormat == "" {
		config.OutputFormat = "csv"
	}
	if config.OutputEncoding == "" {
		config.OutputEncoding = "utf-8"
	}
	if config.Delimiter == "" {
		config.Delimiter = ","
	}
	if config.FileNameFormat == "" {
		config.FileNameFormat = "{kind}"
	}
	if config.IncludeHeader == nil {
		config.IncludeHeader = boolPtr(true)
	}
	if config.SummaryLog == nil {
		config.SummaryLog = boolPtr(true)
	}
	if config.CheckBalances == nil {
		config.CheckBalances = boolPtr(true)
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
}

// Validate checks that every enumerated setting has a supported value.
func (c *Config) Validate() error {
	switch strings.ToLower(c.OutputFormat) {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("output_format must be csv or xlsx, got %q", c.OutputFormat)
	}

	switch strings.ToLower(c.OutputEncoding) {
	case "utf-8", "utf8", "windows-1251", "cp1251":
	default:
		return fmt.Errorf("output_encoding must be utf-8 or windows-1251, got %q", c.OutputEncoding)
	}

	if len([]rune(c.Delimiter)) != 1 && c.Delimiter != "\\t" {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must not be negative, got %d", c.MaxConcurrency)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}

	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
