// =============================================================================
// PO3 Payment File Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - validation
//   - records
//   - generator
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCOUNT TYPES
// =============================================================================

// AccountKind identifies the structural type of a recipient account number.
// It is a closed set: the payment record variant is selected by an exhaustive
// switch over these values, so adding a kind is a compile-visible change
// everywhere accounts are handled.
type AccountKind int

const (
	// AccountInvalid means the number matched no known giro or bank pattern.
	AccountInvalid AccountKind = iota

	// AccountBankgiro is a bankgiro number: 7-8 digits, written plain or as
	// NNN-NNNN / NNNN-NNNN.
	AccountBankgiro

	// AccountPlusgiro is a plusgiro number: 2-8 digits written with the
	// check digit last (NNNNNNN-N).
	AccountPlusgiro

	// AccountBank is an ordinary bank account: a 4-digit clearing number
	// followed by the account number.
	AccountBank
)

// String returns the human-readable name of the account kind.
func (k AccountKind) String() string {
	switch k {
	case AccountBankgiro:
		return "bankgiro"
	case AccountPlusgiro:
		return "plusgiro"
	case AccountBank:
		return "bank account"
	default:
		return "invalid"
	}
}

// Account is the classified form of a recipient account number.
//
// For AccountBankgiro and AccountPlusgiro only GiroNumber is set (digits
// only, separators stripped). For AccountBank, Clearing and Number are set.
type Account struct {
	// Kind is the structural classification of the account number.
	Kind AccountKind

	// GiroNumber is the giro number without separators.
	GiroNumber string

	// Clearing is the 4-digit bank clearing number.
	Clearing string

	// Number is the bank account number following the clearing number.
	Number string
}

// =============================================================================
// ROW ENTITIES
// =============================================================================

// ExpenseRow is one validated expense reimbursement claim.
type ExpenseRow struct {
	// RowNumber is the row's position in the source file (header row is 1).
	// Used for error reporting only.
	RowNumber int

	// PayerName is the name of the member who paid and claims reimbursement.
	PayerName string

	// Amount is the claimed amount in SEK. Always positive after validation.
	Amount decimal.Decimal

	// AccountNumber is the recipient account number as entered (digits,
	// optionally one separator). Classified structurally during generation.
	AccountNumber string

	// AccountHolder is the name of the account holder receiving the payment.
	AccountHolder string

	// AttachmentRef is an optional URL pointing at the uploaded receipt.
	AttachmentRef string

	// Activity is the optional department/activity code for the expense.
	Activity string

	// Description is a short free-text description of the purchase.
	// May be truncated to field width on output.
	Description string

	// Approved marks the row as approved for payment.
	Approved bool

	// Paid marks the row as already paid out. Paid rows never generate lines.
	Paid bool
}

// InvoiceRow is one validated invoice payment. Same shape as ExpenseRow plus
// an optional OCR reference carried on the payment line.
type InvoiceRow struct {
	RowNumber     int
	PayerName     string
	Amount        decimal.Decimal
	AccountNumber string
	AccountHolder string
	AttachmentRef string
	Activity      string
	Description   string
	Approved      bool
	Paid          bool

	// OCRReference is the optional numeric payment reference that matches
	// the payment to the invoice. Purely numeric when present.
	OCRReference string
}

// =============================================================================
// RAW ROWS
// =============================================================================

// RawRow is one untyped row from a tabular source, keyed by column header.
// Raw rows are the adapter boundary: nothing downstream of validation ever
// sees one.
type RawRow struct {
	// Number is the row's position in the source file (header row is 1).
	Number int

	// SourceFile is the path of the file this row came from.
	SourceFile string

	// Fields maps column header to the raw cell value.
	Fields map[string]string
}

// Get returns the trimmed value of a column, or "" when the column is absent.
func (r RawRow) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}
