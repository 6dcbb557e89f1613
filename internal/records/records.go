// =============================================================================
// PO3 Payment File Generator - Record Formatters
// =============================================================================
//
// This module builds the five fixed-width PO3 record types. Every formatter
// is a pure function: validated input in, one 80-character line out, no I/O.
//
// RECORD LAYOUTS (positions are the wire contract with the bank):
//
//   MH00  header, one per file
//     MH00 | 4 blank | org number 10 | timestamp 14 | account 10 |
//     currency 3 | batch id 24 | 11 blank
//
//   PI00  payment, one per paid row; two mutually exclusive variants
//     giro:  PI00 | giro code 2 (00 plusgiro, 05 bankgiro) | 5 blank |
//            giro number 11 | 2 blank | payment date 8 | amount 10 (öre) |
//            reference 25 | 13 blank
//     bank:  PI00 | 09 | clearing 5 | account 11 | 2 blank |
//            payment date 8 | amount 10 (öre) | message 12 | 26 blank
//
//   BA00  note, optional
//     BA00 | note 18 | 9 blank | note 35 | 14 blank
//
//   BE01  beneficiary, optional
//     BE01 | 18 blank | recipient name 58
//
//   MT00  trailer, one per file, always last
//     MT00 | 11 blank | record count 7 (header and trailer included) |
//     payment count 7 | amount sum 15 (öre) | 36 blank
//
// Widths are counted in runes; the file is UTF-8 so å/ä/ö occupy one
// position each.
//
// =============================================================================

package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/klubbkassan/po3-generator/internal/fields"
	"github.com/klubbkassan/po3-generator/internal/types"
)

// =============================================================================
// FORMAT CONSTANTS
// =============================================================================

// Record type codes.
const (
	RecordTypeHeader      = "MH00"
	RecordTypePayment     = "PI00"
	RecordTypeNote        = "BA00"
	RecordTypeBeneficiary = "BE01"
	RecordTypeTrailer     = "MT00"
)

// Giro type codes carried in positions 5-6 of a PI00 record.
const (
	GiroCodePlusgiro = "00"
	GiroCodeBankgiro = "05"
	GiroCodeBank     = "09"
)

// LineLength is the fixed width of every record.
const LineLength = 80

// Field widths per record type.
const (
	OrgNumberWidth   = 10
	TimestampWidth   = 14
	AccountWidth     = 10
	CurrencyWidth    = 3
	BatchIDWidth     = 24
	GiroNumberWidth  = 11
	ClearingWidth    = 5
	BankNumberWidth  = 11
	PaymentDateWidth = 8
	AmountWidth      = 10
	ReferenceWidth   = 25
	MessageWidth     = 12
	NoteShortWidth   = 18
	NoteLongWidth    = 35
	BeneficiaryWidth = 58

	RecordCountWidth  = 7
	PaymentCountWidth = 7
	TotalAmountWidth  = 15
)

// Blank-run widths between fields.
const (
	headerLeadBlank  = 4
	headerTailBlank  = 11
	giroLeadBlank    = 5
	paymentMidBlank  = 2
	giroTailBlank    = 13
	bankTailBlank    = 26
	noteMidBlank     = 9
	noteTailBlank    = 14
	beneficiaryBlank = 18
	trailerLeadBlank = 11
	trailerTailBlank = 36
)

// =============================================================================
// HEADER
// =============================================================================

// Header builds the MH00 record that opens the file.
func Header(orgNumber, accountNumber, currency, batchID string, generatedAt time.Time) string {
	return RecordTypeHeader +
		strings.Repeat(" ", headerLeadBlank) +
		fields.PadText(orgNumber, OrgNumberWidth) +
		fields.Timestamp(generatedAt) +
		fields.PadText(accountNumber, AccountWidth) +
		fields.PadText(currency, CurrencyWidth) +
		fields.PadText(batchID, BatchIDWidth) +
		strings.Repeat(" ", headerTailBlank)
}

// =============================================================================
// PAYMENT
// =============================================================================

// PaymentGiro builds the giro variant of the PI00 record for a bankgiro or
// plusgiro recipient. The reference field carries the OCR number when one
// exists, otherwise the payment message.
func PaymentGiro(account types.Account, amount decimal.Decimal, reference string, paymentDate time.Time) (string, error) {
	var code string
	switch account.Kind {
	case types.AccountPlusgiro:
		code = GiroCodePlusgiro
	case types.AccountBankgiro:
		code = GiroCodeBankgiro
	default:
		return "", fmt.Errorf("giro payment record requires a giro account, got %s", account.Kind)
	}

	amountField, err := fields.FormatAmount(amount, AmountWidth)
	if err != nil {
		return "", err
	}

	return RecordTypePayment +
		code +
		strings.Repeat(" ", giroLeadBlank) +
		fields.PadText(account.GiroNumber, GiroNumberWidth) +
		strings.Repeat(" ", paymentMidBlank) +
		fields.PaymentDate(paymentDate) +
		amountField +
		fields.PadText(reference, ReferenceWidth) +
		strings.Repeat(" ", giroTailBlank), nil
}

// PaymentBank builds the bank-transfer variant of the PI00 record for an
// ordinary clearing+account recipient.
func PaymentBank(account types.Account, amount decimal.Decimal, message string, paymentDate time.Time) (string, error) {
	if account.Kind != types.AccountBank {
		return "", fmt.Errorf("bank payment record requires a bank account, got %s", account.Kind)
	}

	amountField, err := fields.FormatAmount(amount, AmountWidth)
	if err != nil {
		return "", err
	}

	return RecordTypePayment +
		GiroCodeBank +
		fields.PadText(account.Clearing, ClearingWidth) +
		fields.PadText(account.Number, BankNumberWidth) +
		strings.Repeat(" ", paymentMidBlank) +
		fields.PaymentDate(paymentDate) +
		amountField +
		fields.PadText(message, MessageWidth) +
		strings.Repeat(" ", bankTailBlank), nil
}

// =============================================================================
// NOTE AND BENEFICIARY
// =============================================================================

// Note builds the BA00 record carrying the free-text note. The note appears
// twice, in a short and a long field, both truncated to width.
func Note(note string) string {
	return RecordTypeNote +
		fields.PadText(note, NoteShortWidth) +
		strings.Repeat(" ", noteMidBlank) +
		fields.PadText(note, NoteLongWidth) +
		strings.Repeat(" ", noteTailBlank)
}

// Beneficiary builds the BE01 record stating the account holder's name.
func Beneficiary(name string) string {
	return RecordTypeBeneficiary +
		strings.Repeat(" ", beneficiaryBlank) +
		fields.PadText(name, BeneficiaryWidth)
}

// =============================================================================
// TRAILER
// =============================================================================

// Trailer builds the MT00 record that closes the file. recordCount counts
// every line in the file, the header and the trailer included. totalOre is
// the sum of all payment amounts in öre.
func Trailer(recordCount, paymentCount int, totalOre int64) (string, error) {
	recordField, err := fields.PadNumeric(int64(recordCount), RecordCountWidth)
	if err != nil {
		return "", fmt.Errorf("trailer record count: %w", err)
	}
	paymentField, err := fields.PadNumeric(int64(paymentCount), PaymentCountWidth)
	if err != nil {
		return "", fmt.Errorf("trailer payment count: %w", err)
	}
	amountField, err := fields.PadNumeric(totalOre, TotalAmountWidth)
	if err != nil {
		return "", fmt.Errorf("trailer amount sum: %w", err)
	}

	return RecordTypeTrailer +
		strings.Repeat(" ", trailerLeadBlank) +
		recordField +
		paymentField +
		amountField +
		strings.Repeat(" ", trailerTailBlank), nil
}
