// =============================================================================
// PO3 Payment File Generator - Field Formatting Primitives
// =============================================================================
//
// This module provides the low-level primitives every record formatter is
// built from:
//   - Fixed-width numeric padding (leading zeros, overflow is an error)
//   - Fixed-width text padding (left-aligned, truncated, rune-counted)
//   - SEK amount to integer öre conversion (round half-to-even)
//   - Structural account number classification
//   - Header timestamp and payment date stamping
//
// TEXT POLICY:
//   Field widths are counted in runes, not bytes. Swedish characters
//   (å/ä/ö) are preserved as-is and the file is written as UTF-8; nothing
//   is transliterated. Text fields truncate to width, numeric fields never
//   truncate: a numeric value wider than its field is a FieldOverflowError
//   and the row is rejected.
//
// =============================================================================

package fields

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/klubbkassan/po3-generator/internal/types"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// FieldOverflowError means a numeric value does not fit its fixed-width
// field. This indicates source data exceeding the format's capacity; it is
// never silently truncated.
type FieldOverflowError struct {
	// Value is the formatted value that did not fit.
	Value string

	// Width is the fixed width of the field.
	Width int
}

// Error implements the error interface.
func (e *FieldOverflowError) Error() string {
	return fmt.Sprintf("value %q does not fit in %d-character field", e.Value, e.Width)
}

// InvalidAmountError means an amount is negative or otherwise unusable for
// payment generation.
type InvalidAmountError struct {
	// Amount is the offending amount.
	Amount decimal.Decimal

	// Reason explains why the amount was rejected.
	Reason string
}

// Error implements the error interface.
func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s: %s", e.Amount.String(), e.Reason)
}

// AccountClassificationError means a recipient account number matched no
// known giro or bank account pattern.
type AccountClassificationError struct {
	// AccountNumber is the number that failed to classify.
	AccountNumber string
}

// Error implements the error interface.
func (e *AccountClassificationError) Error() string {
	return fmt.Sprintf("account number %q matches no bankgiro, plusgiro or bank account pattern", e.AccountNumber)
}

// =============================================================================
// PADDING PRIMITIVES
// =============================================================================

// PadNumeric right-aligns a non-negative integer with leading zeros to
// exactly width characters. Values whose decimal representation exceeds the
// width produce a FieldOverflowError.
func PadNumeric(value int64, width int) (string, error) {
	if value < 0 {
		return "", fmt.Errorf("cannot pad negative value %d", value)
	}
	s := strconv.FormatInt(value, 10)
	if len(s) > width {
		return "", &FieldOverflowError{Value: s, Width: width}
	}
	return strings.Repeat("0", width-len(s)) + s, nil
}

// PadText left-aligns text in a field of exactly width runes, truncating if
// longer and padding with spaces if shorter. Swedish characters count as one
// position each and are passed through unchanged.
func PadText(value string, width int) string {
	runes := []rune(value)
	if len(runes) > width {
		runes = runes[:width]
	}
	return string(runes) + strings.Repeat(" ", width-len(runes))
}

// =============================================================================
// AMOUNTS
// =============================================================================

// ToOre converts a SEK amount to an integer count of öre, rounding half
// to even. Negative amounts are rejected.
func ToOre(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, &InvalidAmountError{Amount: amount, Reason: "amount is negative"}
	}
	return amount.Shift(2).RoundBank(0).IntPart(), nil
}

// FormatAmount converts a SEK amount to öre and zero-pads it to the given
// field width.
func FormatAmount(amount decimal.Decimal, width int) (string, error) {
	ore, err := ToOre(amount)
	if err != nil {
		return "", err
	}
	return PadNumeric(ore, width)
}

// =============================================================================
// ACCOUNT CLASSIFICATION
// =============================================================================

// ClassifyAccount classifies a recipient account number structurally. This
// is the single decision point that selects the payment record variant.
//
// Rules, checked in order on the number with spaces stripped:
//   - digits with one hyphen before the final digit, 2-8 digits total:
//     plusgiro (check digit written last, e.g. "902090-0")
//   - digits with one hyphen before the final four digits, 7-8 digits total:
//     bankgiro written form (e.g. "123-4567", "5402-9681")
//   - 7-8 plain digits: bankgiro
//   - 9-11 plain digits: bank account, first four digits are the clearing
//     number and the rest the account number
//   - anything else: invalid
func ClassifyAccount(accountNumber string) types.Account {
	s := strings.ReplaceAll(strings.TrimSpace(accountNumber), " ", "")

	if prefix, suffix, ok := strings.Cut(s, "-"); ok {
		if !isDigits(prefix) || !isDigits(suffix) || strings.Contains(suffix, "-") {
			return types.Account{Kind: types.AccountInvalid}
		}
		digits := prefix + suffix
		switch {
		case len(suffix) == 1 && len(digits) >= 2 && len(digits) <= 8:
			return types.Account{Kind: types.AccountPlusgiro, GiroNumber: digits}
		case len(suffix) == 4 && (len(prefix) == 3 || len(prefix) == 4):
			return types.Account{Kind: types.AccountBankgiro, GiroNumber: digits}
		default:
			return types.Account{Kind: types.AccountInvalid}
		}
	}

	if !isDigits(s) {
		return types.Account{Kind: types.AccountInvalid}
	}
	switch {
	case len(s) >= 7 && len(s) <= 8:
		return types.Account{Kind: types.AccountBankgiro, GiroNumber: s}
	case len(s) >= 9 && len(s) <= 11:
		return types.Account{Kind: types.AccountBank, Clearing: s[:4], Number: s[4:]}
	default:
		return types.Account{Kind: types.AccountInvalid}
	}
}

// isDigits reports whether s is non-empty and consists of ASCII digits only.
func isDigits(s string) bool {
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
// TIMESTAMPS
// =============================================================================

// Timestamp renders the batch generation time in the header's fixed
// YYYYMMDDHHMMSS format.
func Timestamp(now time.Time) string {
	return now.Format("20060102150405")
}

// PaymentDate renders the payment date carried on every payment line in the
// fixed YYYYMMDD format.
func PaymentDate(now time.Time) string {
	return now.Format("20060102")
}
