// =============================================================================
// PO3 Payment File Generator - Row Validation
// =============================================================================
//
// This module converts untyped raw rows into the two strongly-typed row
// entities, rejecting rows that violate field constraints.
//
// ERROR HANDLING:
//   - Errors are collected, not thrown immediately
//   - Each error includes detailed context (file, row, field, value)
//   - A row that fails validation is skipped and reported; it never aborts
//     the batch
//
// BOOLEAN FIELDS:
//   Approved/paid flags normalize from a fixed token set only. Unrecognized
//   tokens are a validation error, never silently coerced to false.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/klubbkassan/po3-generator/internal/fields"
	"github.com/klubbkassan/po3-generator/internal/types"
)

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Column headers as they appear in the exported claim forms.
const (
	ColApproved    = "Godkänt"
	ColPaid        = "Utbetalt"
	ColAmount      = "Belopp"
	ColName        = "Ditt namn"
	ColActivity    = "Verksamhet"
	ColDescription = "Kort beskrivning av köp"
	ColAccount     = "Mottagarkonto"
	ColHolder      = "Mottagare (namn)"
	ColOCR         = "OCR/meddelande"
	ColReceipt     = "Ladda upp bild på kvitto"
	ColInvoiceDoc  = "Ladda upp fakturan"
)

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError represents a single row that failed validation.
type ValidationError struct {
	// SourceFile is the file the row came from.
	SourceFile string

	// RowNumber is the row's position in the source file (header row is 1).
	RowNumber int

	// Field is the column that failed validation.
	Field string

	// Value is the raw value that failed validation.
	Value string

	// Message is a human-readable description of the failure.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s row %d, field %q: %s (value: %q)",
		e.SourceFile, e.RowNumber, e.Field, e.Message, e.Value)
}

// =============================================================================
// ROW VALIDATION
// =============================================================================

// ValidateExpense converts a raw row into an ExpenseRow, or reports why it
// cannot.
func ValidateExpense(row types.RawRow) (*types.ExpenseRow, *ValidationError) {
	shared, verr := validateShared(row)
	if verr != nil {
		return nil, verr
	}
	return &types.ExpenseRow{
		RowNumber:     row.Number,
		PayerName:     shared.payerName,
		Amount:        shared.amount,
		AccountNumber: shared.accountNumber,
		AccountHolder: shared.accountHolder,
		AttachmentRef: row.Get(ColReceipt),
		Activity:      row.Get(ColActivity),
		Description:   shared.description,
		Approved:      shared.approved,
		Paid:          shared.paid,
	}, nil
}

// ValidateInvoice converts a raw row into an InvoiceRow, or reports why it
// cannot. The OCR reference is optional but must be purely numeric when
// present.
func ValidateInvoice(row types.RawRow) (*types.InvoiceRow, *ValidationError) {
	shared, verr := validateShared(row)
	if verr != nil {
		return nil, verr
	}

	ocr := row.Get(ColOCR)
	if ocr != "" && !isNumeric(ocr) {
		return nil, rowError(row, ColOCR, ocr, "OCR reference must be purely numeric")
	}

	return &types.InvoiceRow{
		RowNumber:     row.Number,
		PayerName:     shared.payerName,
		Amount:        shared.amount,
		AccountNumber: shared.accountNumber,
		AccountHolder: shared.accountHolder,
		AttachmentRef: row.Get(ColInvoiceDoc),
		Activity:      row.Get(ColActivity),
		Description:   shared.description,
		Approved:      shared.approved,
		Paid:          shared.paid,
		OCRReference:  ocr,
	}, nil
}

// ValidateExpenses validates a slice of raw rows, returning the valid rows
// in input order and one error per rejected row.
func ValidateExpenses(rows []types.RawRow) ([]types.ExpenseRow, []*ValidationError) {
	var valid []types.ExpenseRow
	var errs []*ValidationError
	for _, row := range rows {
		expense, verr := ValidateExpense(row)
		if verr != nil {
			errs = append(errs, verr)
			continue
		}
		valid = append(valid, *expense)
	}
	return valid, errs
}

// ValidateInvoices validates a slice of raw rows, returning the valid rows
// in input order and one error per rejected row.
func ValidateInvoices(rows []types.RawRow) ([]types.InvoiceRow, []*ValidationError) {
	var valid []types.InvoiceRow
	var errs []*ValidationError
	for _, row := range rows {
		invoice, verr := ValidateInvoice(row)
		if verr != nil {
			errs = append(errs, verr)
			continue
		}
		valid = append(valid, *invoice)
	}
	return valid, errs
}

// =============================================================================
// SHARED FIELD VALIDATION
// =============================================================================

// sharedFields holds the fields common to both row entities.
type sharedFields struct {
	payerName     string
	amount        decimal.Decimal
	accountNumber string
	accountHolder string
	description   string
	approved      bool
	paid          bool
}

// validateShared checks the fields both row kinds require.
func validateShared(row types.RawRow) (*sharedFields, *ValidationError) {
	for _, col := range []string{ColName, ColAmount, ColDescription, ColAccount, ColHolder} {
		if row.Get(col) == "" {
			return nil, rowError(row, col, "", "required field is missing or empty")
		}
	}

	approved, verr := parseBool(row, ColApproved)
	if verr != nil {
		return nil, verr
	}
	paid, verr := parseBool(row, ColPaid)
	if verr != nil {
		return nil, verr
	}

	amount, err := parseAmount(row.Get(ColAmount))
	if err != nil {
		return nil, rowError(row, ColAmount, row.Get(ColAmount), err.Error())
	}

	accountNumber := row.Get(ColAccount)
	if account := fields.ClassifyAccount(accountNumber); account.Kind == types.AccountInvalid {
		err := &fields.AccountClassificationError{AccountNumber: accountNumber}
		return nil, rowError(row, ColAccount, accountNumber, err.Error())
	}

	return &sharedFields{
		payerName:     row.Get(ColName),
		amount:        amount,
		accountNumber: accountNumber,
		accountHolder: row.Get(ColHolder),
		description:   row.Get(ColDescription),
		approved:      approved,
		paid:          paid,
	}, nil
}

// =============================================================================
// FIELD PARSERS
// =============================================================================

// Token sets for boolean-like columns. The forms exported by the claim
// sheets vary between English and Swedish.
var (
	truthyTokens = map[string]bool{"true": true, "yes": true, "ja": true, "1": true, "x": true}
	falsyTokens  = map[string]bool{"false": true, "no": true, "nej": true, "0": true}
)

// parseBool normalizes a boolean-like column. Unrecognized tokens are a
// validation error, not false.
func parseBool(row types.RawRow, col string) (bool, *ValidationError) {
	token := strings.ToLower(row.Get(col))
	switch {
	case truthyTokens[token]:
		return true, nil
	case falsyTokens[token]:
		return false, nil
	default:
		return false, rowError(row, col, row.Get(col), "unrecognized boolean token")
	}
}

// parseAmount parses a positive decimal SEK amount. Both comma and period
// decimal separators are accepted.
func parseAmount(value string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(value, ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount does not parse as a decimal number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive")
	}
	return amount, nil
}

// isNumeric reports whether s is non-empty and consists of ASCII digits only.
func isNumeric(s string) bool {
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

// rowError builds a ValidationError with row context filled in.
func rowError(row types.RawRow, field, value, message string) *ValidationError {
	return &ValidationError{
		SourceFile: row.SourceFile,
		RowNumber:  row.Number,
		Field:      field,
		Value:      value,
		Message:    message,
	}
}
