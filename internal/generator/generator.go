// =============================================================================
// PO3 Payment File Generator - Payment Line Generation
// =============================================================================
//
// This module produces the multi-line record block for one validated row.
// The order within a block is part of the wire contract and never varies:
//
//   PI00                  always, exactly one
//   BA00                  when a description or OCR reference is present
//   BE01                  when the account holder differs from the payer
//
// The account is classified once per row; the classification selects the
// PI00 variant. Rows that are unapproved, already paid, or carry a
// non-positive amount are excluded entirely. Callers are expected to have
// filtered, but the generator re-checks and skips rather than emitting a
// zero-amount record.
//
// =============================================================================

package generator

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/klubbkassan/po3-generator/internal/fields"
	"github.com/klubbkassan/po3-generator/internal/records"
	"github.com/klubbkassan/po3-generator/internal/types"
)

// =============================================================================
// PAYMENT BLOCK
// =============================================================================

// Block is the in-memory set of record lines produced for one row. It lives
// only for the duration of one row's processing and is never persisted.
type Block struct {
	// Lines are the record lines in emission order.
	Lines []string

	// AmountOre is the payment amount in öre, as carried on the PI00 line.
	AmountOre int64

	// Warnings lists text fields that were truncated to fit their width.
	Warnings []string
}

// Skip reasons for rows the generator excludes without error.
const (
	SkipNotApproved       = "not approved"
	SkipAlreadyPaid       = "already paid"
	SkipNonPositiveAmount = "non-positive amount"
)

// =============================================================================
// BLOCK GENERATION
// =============================================================================

// ExpenseBlock generates the ordered record lines for one expense row.
// It returns a non-empty skip reason when the row is excluded by policy,
// and an error when the row's data cannot be formatted.
func ExpenseBlock(row types.ExpenseRow, paymentDate time.Time) (*Block, string, error) {
	if skip := skipReason(row.Approved, row.Paid, row.Amount.IsPositive()); skip != "" {
		return nil, skip, nil
	}

	message := joinParts(row.Activity, row.Description)
	block, err := buildBlock(blockInput{
		rowNumber:     row.RowNumber,
		accountNumber: row.AccountNumber,
		amount:        row.Amount,
		reference:     message,
		message:       message,
		note:          joinParts(row.Activity, row.Description, row.PayerName),
		noteWanted:    row.Description != "",
		payerName:     row.PayerName,
		accountHolder: row.AccountHolder,
	}, paymentDate)
	if err != nil {
		return nil, "", err
	}
	return block, "", nil
}

// InvoiceBlock generates the ordered record lines for one invoice row.
// The giro reference field carries the OCR reference when present, otherwise
// the payment message.
func InvoiceBlock(row types.InvoiceRow, paymentDate time.Time) (*Block, string, error) {
	if skip := skipReason(row.Approved, row.Paid, row.Amount.IsPositive()); skip != "" {
		return nil, skip, nil
	}

	message := joinParts(row.Activity, row.Description)
	reference := row.OCRReference
	if reference == "" {
		reference = message
	}

	block, err := buildBlock(blockInput{
		rowNumber:     row.RowNumber,
		accountNumber: row.AccountNumber,
		amount:        row.Amount,
		reference:     reference,
		message:       message,
		note:          joinParts(row.Activity, row.Description, row.PayerName),
		noteWanted:    row.Description != "" || row.OCRReference != "",
		payerName:     row.PayerName,
		accountHolder: row.AccountHolder,
	}, paymentDate)
	if err != nil {
		return nil, "", err
	}
	return block, "", nil
}

// skipReason returns why a row is excluded from generation, or "".
func skipReason(approved, paid, positive bool) string {
	switch {
	case !approved:
		return SkipNotApproved
	case paid:
		return SkipAlreadyPaid
	case !positive:
		return SkipNonPositiveAmount
	default:
		return ""
	}
}

// =============================================================================
// SHARED BLOCK BUILDER
// =============================================================================

// blockInput carries the row fields both block kinds feed the builder.
type blockInput struct {
	rowNumber     int
	accountNumber string
	amount        decimal.Decimal
	reference     string
	message       string
	note          string
	noteWanted    bool
	payerName     string
	accountHolder string
}

// buildBlock classifies the account once and emits PI00, then BA00 and BE01
// when applicable.
func buildBlock(in blockInput, paymentDate time.Time) (*Block, error) {
	account := fields.ClassifyAccount(in.accountNumber)

	block := &Block{}
	var payment string
	var err error

	switch account.Kind {
	case types.AccountBankgiro, types.AccountPlusgiro:
		payment, err = records.PaymentGiro(account, in.amount, in.reference, paymentDate)
		block.noteTruncation(in.rowNumber, "reference", in.reference, records.ReferenceWidth)
	case types.AccountBank:
		payment, err = records.PaymentBank(account, in.amount, in.message, paymentDate)
		block.noteTruncation(in.rowNumber, "message", in.message, records.MessageWidth)
	case types.AccountInvalid:
		return nil, &fields.AccountClassificationError{AccountNumber: in.accountNumber}
	default:
		return nil, fmt.Errorf("row %d: unhandled account kind %d", in.rowNumber, account.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", in.rowNumber, err)
	}

	ore, err := fields.ToOre(in.amount)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", in.rowNumber, err)
	}

	block.Lines = append(block.Lines, payment)
	block.AmountOre = ore

	if in.noteWanted && in.note != "" {
		block.Lines = append(block.Lines, records.Note(in.note))
		block.noteTruncation(in.rowNumber, "note", in.note, records.NoteLongWidth)
	}

	if in.accountHolder != "" && in.accountHolder != in.payerName {
		block.Lines = append(block.Lines, records.Beneficiary(in.accountHolder))
		block.noteTruncation(in.rowNumber, "beneficiary name", in.accountHolder, records.BeneficiaryWidth)
	}

	return block, nil
}

// noteTruncation records a warning when a text value exceeds its field width.
func (b *Block) noteTruncation(rowNumber int, field, value string, width int) {
	if utf8.RuneCountInString(value) > width {
		b.Warnings = append(b.Warnings,
			fmt.Sprintf("row %d: %s truncated to %d characters", rowNumber, field, width))
	}
}

// joinParts joins non-empty parts with single spaces.
func joinParts(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
