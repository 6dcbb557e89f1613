package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/klubbkassan/po3-generator/internal/types"
)

func rawExpense(overrides map[string]string) types.RawRow {
	fields := map[string]string{
		ColApproved:    "true",
		ColPaid:        "false",
		ColAmount:      "500.00",
		ColName:        "Jane Doe",
		ColActivity:    "Styrelsen",
		ColDescription: "Taxi",
		ColAccount:     "1234567",
		ColHolder:      "Jane Doe",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return types.RawRow{Number: 2, SourceFile: "expenses.csv", Fields: fields}
}

func rawInvoice(overrides map[string]string) types.RawRow {
	row := rawExpense(overrides)
	if _, ok := overrides[ColOCR]; !ok {
		row.Fields[ColOCR] = "9912345678"
	}
	row.SourceFile = "invoices.csv"
	return row
}

func TestValidateExpense(t *testing.T) {
	expense, verr := ValidateExpense(rawExpense(nil))
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if expense.PayerName != "Jane Doe" || expense.AccountNumber != "1234567" {
		t.Errorf("unexpected row: %+v", expense)
	}
	if !expense.Approved || expense.Paid {
		t.Errorf("flags not normalized: approved=%v paid=%v", expense.Approved, expense.Paid)
	}
	if !expense.Amount.Equal(decimal.RequireFromString("500.00")) {
		t.Errorf("amount = %s, want 500.00", expense.Amount.String())
	}
	if expense.RowNumber != 2 {
		t.Errorf("row number = %d, want 2", expense.RowNumber)
	}
}

func TestValidateExpenseCommaAmount(t *testing.T) {
	expense, verr := ValidateExpense(rawExpense(map[string]string{ColAmount: "1234,56"}))
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if !expense.Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("amount = %s, want 1234.56", expense.Amount.String())
	}
}

func TestBooleanTokens(t *testing.T) {
	tests := []struct {
		token string
		want  bool
		valid bool
	}{
		{"true", true, true},
		{"TRUE", true, true},
		{"Ja", true, true},
		{"yes", true, true},
		{"1", true, true},
		{"x", true, true},
		{"false", false, true},
		{"Nej", false, true},
		{"no", false, true},
		{"0", false, true},
		{"", false, false},
		{"maybe", false, false},
		{"2", false, false},
	}
	for _, tt := range tests {
		expense, verr := ValidateExpense(rawExpense(map[string]string{ColApproved: tt.token}))
		if !tt.valid {
			if verr == nil {
				t.Errorf("token %q accepted, want validation error", tt.token)
			} else if verr.Field != ColApproved {
				t.Errorf("token %q error field = %q, want %q", tt.token, verr.Field, ColApproved)
			}
			continue
		}
		if verr != nil {
			t.Errorf("token %q rejected: %v", tt.token, verr)
			continue
		}
		if expense.Approved != tt.want {
			t.Errorf("token %q = %v, want %v", tt.token, expense.Approved, tt.want)
		}
	}
}

func TestMissingRequiredField(t *testing.T) {
	for _, col := range []string{ColName, ColAmount, ColDescription, ColAccount, ColHolder} {
		_, verr := ValidateExpense(rawExpense(map[string]string{col: "  "}))
		if verr == nil {
			t.Errorf("empty %q accepted, want validation error", col)
			continue
		}
		if verr.Field != col {
			t.Errorf("error field = %q, want %q", verr.Field, col)
		}
	}
}

func TestNonPositiveAmountRejected(t *testing.T) {
	for _, amount := range []string{"0", "-10.50", "abc"} {
		_, verr := ValidateExpense(rawExpense(map[string]string{ColAmount: amount}))
		if verr == nil {
			t.Errorf("amount %q accepted, want validation error", amount)
		}
	}
}

func TestUnclassifiableAccountRejected(t *testing.T) {
	_, verr := ValidateExpense(rawExpense(map[string]string{ColAccount: "12345"}))
	if verr == nil {
		t.Fatal("unclassifiable account accepted")
	}
	if verr.Field != ColAccount {
		t.Errorf("error field = %q, want %q", verr.Field, ColAccount)
	}
	if !strings.Contains(verr.Message, "pattern") {
		t.Errorf("unexpected message: %q", verr.Message)
	}
}

func TestValidateInvoiceOCR(t *testing.T) {
	invoice, verr := ValidateInvoice(rawInvoice(nil))
	if verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
	if invoice.OCRReference != "9912345678" {
		t.Errorf("OCR = %q, want %q", invoice.OCRReference, "9912345678")
	}

	// Optional: an empty OCR reference is fine.
	if _, verr := ValidateInvoice(rawInvoice(map[string]string{ColOCR: ""})); verr != nil {
		t.Errorf("empty OCR rejected: %v", verr)
	}

	// But a non-numeric one is not.
	_, verr = ValidateInvoice(rawInvoice(map[string]string{ColOCR: "OCR-123"}))
	if verr == nil {
		t.Fatal("non-numeric OCR accepted")
	}
	if verr.Field != ColOCR {
		t.Errorf("error field = %q, want %q", verr.Field, ColOCR)
	}
}

func TestValidateExpensesCollectsErrors(t *testing.T) {
	rows := []types.RawRow{
		rawExpense(nil),
		rawExpense(map[string]string{ColAmount: "-1"}),
		rawExpense(map[string]string{ColAccount: "123"}),
	}
	rows[1].Number = 3
	rows[2].Number = 4

	valid, errs := ValidateExpenses(rows)
	if len(valid) != 1 {
		t.Errorf("valid rows = %d, want 1", len(valid))
	}
	if len(errs) != 2 {
		t.Fatalf("errors = %d, want 2", len(errs))
	}
	if errs[0].RowNumber != 3 || errs[1].RowNumber != 4 {
		t.Errorf("error rows = %d, %d, want 3, 4", errs[0].RowNumber, errs[1].RowNumber)
	}
}
