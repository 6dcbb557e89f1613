package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/klubbkassan/po3-generator/internal/records"
	"github.com/klubbkassan/po3-generator/internal/types"
)

func testBatchConfig() BatchConfig {
	return BatchConfig{
		OrgNumber:     "5565551234",
		AccountNumber: "12345678",
		Currency:      "SEK",
		BatchID:       "batch-0001",
		GeneratedAt:   testDate,
	}
}

// One expense paid to the payer's own bankgiro: header, giro PI00 with the
// amount 500.00 SEK as "0000050000", a note carrying the description, no
// BE01 (holder equals payer), and a trailer counting itself and the header.
func TestAssembleSingleExpense(t *testing.T) {
	result, err := Assemble(testBatchConfig(), []types.ExpenseRow{testExpense()}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	want := []string{
		records.RecordTypeHeader,
		records.RecordTypePayment,
		records.RecordTypeNote,
		records.RecordTypeTrailer,
	}
	got := recordTypes(result.Lines)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("record sequence = %v, want %v", got, want)
	}

	payment := result.Lines[1]
	if payment[4:6] != records.GiroCodeBankgiro {
		t.Errorf("PI00 variant = %q, want giro %q", payment[4:6], records.GiroCodeBankgiro)
	}
	if !strings.Contains(payment, "0000050000") {
		t.Errorf("amount field missing from %q", payment)
	}
	if !strings.Contains(result.Lines[2], "Taxi") {
		t.Errorf("note text missing from %q", result.Lines[2])
	}

	if result.Totals.RecordCount != 4 {
		t.Errorf("record count = %d, want 4", result.Totals.RecordCount)
	}
	if result.Totals.PaymentCount != 1 {
		t.Errorf("payment count = %d, want 1", result.Totals.PaymentCount)
	}
	if result.Totals.AmountOre != 50000 {
		t.Errorf("amount sum = %d, want 50000", result.Totals.AmountOre)
	}
	if !strings.Contains(result.Lines[3], "0000004") {
		t.Errorf("trailer record count field missing from %q", result.Lines[3])
	}
}

func TestAssembleGolden(t *testing.T) {
	expenses := []types.ExpenseRow{
		testExpense(),
		{
			RowNumber:     3,
			PayerName:     "Anna Andersson",
			Amount:        decimal.RequireFromString("250.50"),
			AccountNumber: "83271234567",
			AccountHolder: "Sven Svensson",
			Activity:      "Festen",
			Description:   "Fika",
			Approved:      true,
		},
	}
	invoices := []types.InvoiceRow{testInvoice()}

	result, err := Assemble(testBatchConfig(), expenses, invoices)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	golden, err := os.ReadFile(filepath.Join("testdata", "golden_batch.txt"))
	if err != nil {
		t.Fatalf("read golden file: %v", err)
	}
	if result.Content != string(golden) {
		t.Errorf("content differs from golden file\ngot:\n%s\nwant:\n%s", result.Content, golden)
	}
}

// Generating twice from identical input yields byte-identical output.
func TestAssembleIdempotent(t *testing.T) {
	expenses := []types.ExpenseRow{testExpense()}
	invoices := []types.InvoiceRow{testInvoice()}

	first, err := Assemble(testBatchConfig(), expenses, invoices)
	if err != nil {
		t.Fatalf("first Assemble: %v", err)
	}
	second, err := Assemble(testBatchConfig(), expenses, invoices)
	if err != nil {
		t.Fatalf("second Assemble: %v", err)
	}
	if first.Content != second.Content {
		t.Error("identical input produced different output")
	}
}

// The trailer matches what was actually emitted, and every line has the
// contractual width.
func TestAssembleTrailerInvariants(t *testing.T) {
	expenses := []types.ExpenseRow{testExpense()}
	extra := testExpense()
	extra.RowNumber = 3
	extra.Amount = decimal.RequireFromString("0.01")
	extra.AccountHolder = "Sven Svensson"
	expenses = append(expenses, extra)

	result, err := Assemble(testBatchConfig(), expenses, []types.InvoiceRow{testInvoice()})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if result.Totals.RecordCount != len(result.Lines) {
		t.Errorf("trailer record count %d != emitted lines %d", result.Totals.RecordCount, len(result.Lines))
	}
	if result.Totals.AmountOre != 50000+1+100000 {
		t.Errorf("amount sum = %d, want %d", result.Totals.AmountOre, 50000+1+100000)
	}
	if !strings.HasPrefix(result.Lines[0], records.RecordTypeHeader) {
		t.Error("first line is not the header")
	}
	if !strings.HasPrefix(result.Lines[len(result.Lines)-1], records.RecordTypeTrailer) {
		t.Error("last line is not the trailer")
	}
	for i, line := range result.Lines {
		if n := utf8.RuneCountInString(line); n != records.LineLength {
			t.Errorf("line %d width = %d, want %d", i, n, records.LineLength)
		}
	}
	if !strings.HasSuffix(result.Content, "\n") {
		t.Error("content is not newline-terminated")
	}
}

// Per-row failures never abort the batch; they are reported individually.
func TestAssembleSkipsAndReportsBadRows(t *testing.T) {
	good := testExpense()
	paid := testExpense()
	paid.RowNumber = 3
	paid.Paid = true
	badAccount := testExpense()
	badAccount.RowNumber = 4
	badAccount.AccountNumber = "12345"

	result, err := Assemble(testBatchConfig(), []types.ExpenseRow{good, paid, badAccount}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if result.Totals.PaymentCount != 1 {
		t.Errorf("payment count = %d, want 1", result.Totals.PaymentCount)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("skipped = %d, want 2", len(result.Skipped))
	}
	if result.Skipped[0].RowNumber != 3 || result.Skipped[0].Reason != SkipAlreadyPaid {
		t.Errorf("unexpected first skip: %+v", result.Skipped[0])
	}
	if result.Skipped[1].RowNumber != 4 {
		t.Errorf("unexpected second skip: %+v", result.Skipped[1])
	}
}

// Zero payable rows produce no output at all.
func TestAssembleEmptyBatch(t *testing.T) {
	paid := testExpense()
	paid.Paid = true

	result, err := Assemble(testBatchConfig(), []types.ExpenseRow{paid}, nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("error = %v, want ErrEmptyBatch", err)
	}
	if result != nil {
		t.Error("content returned for an empty batch")
	}

	if _, err := Assemble(testBatchConfig(), nil, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("error = %v, want ErrEmptyBatch", err)
	}
}

// Structural configuration problems abort before any row is processed.
func TestAssembleConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BatchConfig)
		field  string
	}{
		{"short org number", func(c *BatchConfig) { c.OrgNumber = "123" }, "org_number"},
		{"non-numeric org number", func(c *BatchConfig) { c.OrgNumber = "55655512AB" }, "org_number"},
		{"missing account", func(c *BatchConfig) { c.AccountNumber = "" }, "account_number"},
		{"long account", func(c *BatchConfig) { c.AccountNumber = "12345678901" }, "account_number"},
		{"bad currency", func(c *BatchConfig) { c.Currency = "KRONOR" }, "currency"},
		{"missing batch id", func(c *BatchConfig) { c.BatchID = "" }, "batch_id"},
	}
	for _, tt := range tests {
		cfg := testBatchConfig()
		tt.mutate(&cfg)

		_, err := Assemble(cfg, []types.ExpenseRow{testExpense()}, nil)
		var confErr *ConfigurationError
		if !errors.As(err, &confErr) {
			t.Errorf("%s: error = %v, want ConfigurationError", tt.name, err)
			continue
		}
		if confErr.Field != tt.field {
			t.Errorf("%s: field = %q, want %q", tt.name, confErr.Field, tt.field)
		}
	}
}

// An empty currency defaults to SEK rather than failing.
func TestAssembleDefaultCurrency(t *testing.T) {
	cfg := testBatchConfig()
	cfg.Currency = ""

	result, err := Assemble(cfg, []types.ExpenseRow{testExpense()}, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(result.Lines[0], "SEK") {
		t.Errorf("header missing default currency: %q", result.Lines[0])
	}
}
