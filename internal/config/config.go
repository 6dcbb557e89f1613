// =============================================================================
// PO3 Payment File Generator - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file, applies
// defaults and validates it on load. Batch-level values (organization
// number, payer account) are passed on to the assembler explicitly; nothing
// in the core reads ambient process state.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// BATCH SETTINGS
	// =========================================================================

	// OrgNumber is the paying organization's number, exactly 10 digits.
	// Required.
	OrgNumber string `yaml:"org_number"`

	// AccountNumber is the payer's account number, 1-10 digits.
	// Required.
	AccountNumber string `yaml:"account_number"`

	// Currency is the 3-letter currency code stamped into the header.
	// Default: "SEK"
	Currency string `yaml:"currency"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// ExpensesFile is the path to the expense claims CSV export.
	ExpensesFile string `yaml:"expenses_file"`

	// InvoicesFile is the path to the invoice payments CSV export.
	InvoicesFile string `yaml:"invoices_file"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory the generated payment file is written to.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// ArchiveDir is the directory processed input files are moved to.
	// Default: "./input_archive"
	ArchiveDir string `yaml:"archive_dir"`

	// OutputNameFormat defines the output file name.
	// Placeholders:
	//   {timestamp} - Generation timestamp (YYYYMMDD_HHMMSS)
	//   {uuid}      - A random UUID
	// Default: "utlagg_{timestamp}_po3.txt"
	OutputNameFormat string `yaml:"output_name_format"`

	// ArchiveOnSuccess moves the input files to the archive directory after
	// a payment file has been written.
	ArchiveOnSuccess bool `yaml:"archive_on_success"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads, defaults and validates the configuration file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Currency == "" {
		cfg.Currency = "SEK"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = "./input_archive"
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "utlagg_{timestamp}_po3.txt"
	}
}

// validate checks the fields generation cannot start without. Malformed
// batch fields are re-checked by the assembler; this catches them before
// any input is read.
func validate(cfg *Config) error {
	if cfg.OrgNumber == "" {
		return fmt.Errorf("org_number is required")
	}
	if cfg.AccountNumber == "" {
		return fmt.Errorf("account_number is required")
	}
	if cfg.ExpensesFile == "" && cfg.InvoicesFile == "" {
		return fmt.Errorf("at least one of expenses_file and invoices_file is required")
	}
	return nil
}
