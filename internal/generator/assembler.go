// =============================================================================
// PO3 Payment File Generator - Batch Assembly
// =============================================================================
//
// This module aggregates per-row record blocks into the final file content.
// Rows are processed strictly in order (all expenses in input order, then
// all invoices in input order); the traversal is deterministic, so identical
// input produces byte-identical output.
//
// The header is built from the batch configuration and the timestamp
// captured at batch start; the trailer is built from the final running
// totals. Per-row failures skip the row and are reported individually;
// structural failures (malformed configuration, empty batch) abort the whole
// batch before any output exists.
//
// =============================================================================

package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klubbkassan/po3-generator/internal/records"
	"github.com/klubbkassan/po3-generator/internal/types"
)

// =============================================================================
// BATCH CONFIGURATION
// =============================================================================

// BatchConfig is the explicit configuration for one generation run.
// Generation is a pure function of (config, rows): nothing is read from
// ambient process state.
type BatchConfig struct {
	// OrgNumber is the paying organization's number, exactly 10 digits.
	OrgNumber string

	// AccountNumber is the payer's account number, 1-10 digits.
	AccountNumber string

	// Currency is the 3-letter currency code. Defaults to SEK when empty.
	Currency string

	// BatchID is a free-form batch identifier carried in the header,
	// truncated to the header field width.
	BatchID string

	// GeneratedAt is the batch generation time, stamped into the header and
	// onto every payment line. Zero means time.Now(); inject a fixed time
	// for reproducible output.
	GeneratedAt time.Time
}

// ConfigurationError means the batch configuration is missing or malformed.
// It always aborts generation before any row is processed.
type ConfigurationError struct {
	// Field is the configuration field that failed validation.
	Field string

	// Reason explains the failure.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration field %q: %s", e.Field, e.Reason)
}

// validate checks the structural fields generation cannot proceed without.
func (c *BatchConfig) validate() error {
	if !allDigits(c.OrgNumber) || len(c.OrgNumber) != 10 {
		return &ConfigurationError{Field: "org_number", Reason: "must be exactly 10 digits"}
	}
	if !allDigits(c.AccountNumber) || len(c.AccountNumber) > records.AccountWidth {
		return &ConfigurationError{Field: "account_number", Reason: "must be 1-10 digits"}
	}
	if len(c.Currency) != records.CurrencyWidth {
		return &ConfigurationError{Field: "currency", Reason: "must be a 3-letter code"}
	}
	if c.BatchID == "" {
		return &ConfigurationError{Field: "batch_id", Reason: "must not be empty"}
	}
	return nil
}

// allDigits reports whether s is non-empty and consists of ASCII digits only.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// ErrEmptyBatch means no row produced any payment lines; no file content is
// returned in that case.
var ErrEmptyBatch = errors.New("no valid rows produced payment lines")

// Totals is the running aggregate state for one batch. It is created at
// batch start, mutated once per row by the single assembly pass, and
// consumed exactly once to emit the trailer.
type Totals struct {
	// RecordCount counts every line in the file, header and trailer included.
	RecordCount int

	// PaymentCount counts emitted PI00 lines.
	PaymentCount int

	// AmountOre is the sum of all payment amounts in öre.
	AmountOre int64

	// GeneratedAt is the timestamp captured at batch start.
	GeneratedAt time.Time
}

// SkippedRow reports one row that generated no lines, with the reason, so
// operators can correct the source data.
type SkippedRow struct {
	// Kind is "expense" or "invoice".
	Kind string

	// RowNumber is the row's position in its source file.
	RowNumber int

	// Reason is why the row was skipped.
	Reason string
}

// Result is the outcome of a successful batch assembly.
type Result struct {
	// Lines are all record lines in file order: header, blocks, trailer.
	Lines []string

	// Content is the final file content: newline-terminated lines, UTF-8.
	Content string

	// Totals are the final batch totals, matching the trailer record.
	Totals Totals

	// Skipped lists every row that produced no lines.
	Skipped []SkippedRow

	// Warnings lists per-row text truncations.
	Warnings []string
}

// =============================================================================
// ASSEMBLY
// =============================================================================

// Assemble generates the full PO3 file content for one batch. Expenses are
// processed first, then invoices, each in input order. Per-row failures are
// reported in Result.Skipped and never abort the batch; a malformed
// configuration or a batch with no payable rows aborts with no content.
func Assemble(cfg BatchConfig, expenses []types.ExpenseRow, invoices []types.InvoiceRow) (*Result, error) {
	if cfg.Currency == "" {
		cfg.Currency = "SEK"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.GeneratedAt.IsZero() {
		cfg.GeneratedAt = time.Now()
	}

	result := &Result{
		Totals: Totals{GeneratedAt: cfg.GeneratedAt},
	}
	var body []string

	appendBlock := func(kind string, rowNumber int, block *Block, skip string, err error) {
		switch {
		case err != nil:
			result.Skipped = append(result.Skipped, SkippedRow{Kind: kind, RowNumber: rowNumber, Reason: err.Error()})
		case skip != "":
			result.Skipped = append(result.Skipped, SkippedRow{Kind: kind, RowNumber: rowNumber, Reason: skip})
		default:
			body = append(body, block.Lines...)
			result.Warnings = append(result.Warnings, block.Warnings...)
			result.Totals.PaymentCount++
			result.Totals.AmountOre += block.AmountOre
		}
	}

	for _, row := range expenses {
		block, skip, err := ExpenseBlock(row, cfg.GeneratedAt)
		appendBlock("expense", row.RowNumber, block, skip, err)
	}
	for _, row := range invoices {
		block, skip, err := InvoiceBlock(row, cfg.GeneratedAt)
		appendBlock("invoice", row.RowNumber, block, skip, err)
	}

	if result.Totals.PaymentCount == 0 {
		return nil, ErrEmptyBatch
	}

	// Header and trailer count themselves in the trailer's record count.
	result.Totals.RecordCount = len(body) + 2

	header := records.Header(cfg.OrgNumber, cfg.AccountNumber, cfg.Currency, cfg.BatchID, cfg.GeneratedAt)
	trailer, err := records.Trailer(result.Totals.RecordCount, result.Totals.PaymentCount, result.Totals.AmountOre)
	if err != nil {
		return nil, fmt.Errorf("assemble trailer: %w", err)
	}

	result.Lines = make([]string, 0, len(body)+2)
	result.Lines = append(result.Lines, header)
	result.Lines = append(result.Lines, body...)
	result.Lines = append(result.Lines, trailer)
	result.Content = strings.Join(result.Lines, "\n") + "\n"

	return result, nil
}
