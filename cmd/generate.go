// =============================================================================
// PO3 Payment File Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, the main command for producing a
// payment file.
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Load expense and invoice rows from the configured CSV exports
//   3. Validate rows (failures are reported and skipped, never fatal)
//   4. Assemble the batch: header, per-row record blocks, trailer
//   5. Write the payment file and the skip report
//   6. Archive processed input files
//   7. Print a summary
//
// Either the full valid batch is written or nothing is: assembly happens
// entirely in memory and the file appears only after a successful run.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/klubbkassan/po3-generator/internal/config"
	"github.com/klubbkassan/po3-generator/internal/csvparser"
	"github.com/klubbkassan/po3-generator/internal/generator"
	"github.com/klubbkassan/po3-generator/internal/types"
	"github.com/klubbkassan/po3-generator/internal/validation"
	"github.com/klubbkassan/po3-generator/pkg/utils"
)

// dryRun validates and assembles without writing any files.
var dryRun bool

// expensesFile and invoicesFile override the configured input paths.
var expensesFile string
var invoicesFile string

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a PO3 payment file from the configured inputs",
	Long: `The generate command reads the configured expense and invoice CSV exports,
validates every row, and writes one PO3 payment file for all payable rows.

Rows that are not approved, already paid, or fail validation are skipped and
listed in a skip report next to the payment file. A batch in which no row is
payable writes nothing.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Validate and assemble without writing output files",
	)

	generateCmd.Flags().StringVar(
		&expensesFile,
		"expenses",
		"",
		"Path to the expenses CSV (overrides the configured path)",
	)

	generateCmd.Flags().StringVar(
		&invoicesFile,
		"invoices",
		"",
		"Path to the invoices CSV (overrides the configured path)",
	)
}

// runGenerate orchestrates the generation pipeline.
func runGenerate() error {
	startTime := time.Now()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if expensesFile != "" {
		cfg.ExpensesFile = expensesFile
	}
	if invoicesFile != "" {
		cfg.InvoicesFile = invoicesFile
	}
	log.Debug("configuration loaded", "config", cfgFile)

	expenses, invoices, rowErrs, err := loadAndValidate(cfg)
	if err != nil {
		return err
	}
	for _, verr := range rowErrs {
		log.Warn("row skipped", "file", verr.SourceFile, "row", verr.RowNumber,
			"field", verr.Field, "reason", verr.Message)
	}

	batchCfg := generator.BatchConfig{
		OrgNumber:     cfg.OrgNumber,
		AccountNumber: cfg.AccountNumber,
		Currency:      cfg.Currency,
		BatchID:       uuid.New().String(),
		GeneratedAt:   startTime,
	}

	result, err := generator.Assemble(batchCfg, expenses, invoices)
	if errors.Is(err, generator.ErrEmptyBatch) {
		log.Warn("no payable rows in input, no file written")
		return nil
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	for _, warning := range result.Warnings {
		log.Warn(warning)
	}
	for _, skipped := range result.Skipped {
		log.Warn("row skipped", "kind", skipped.Kind, "row", skipped.RowNumber,
			"reason", skipped.Reason)
	}

	outputPath := "(dry run)"
	if !dryRun {
		outputPath, err = writeOutputs(cfg, result, rowErrs)
		if err != nil {
			return err
		}
	}

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Generation Complete ===")
	fmt.Printf("Payments:        %d\n", result.Totals.PaymentCount)
	fmt.Printf("Records:         %d\n", result.Totals.RecordCount)
	fmt.Printf("Total amount:    %d.%02d SEK\n", result.Totals.AmountOre/100, result.Totals.AmountOre%100)
	fmt.Printf("Skipped rows:    %d\n", len(rowErrs)+len(result.Skipped))
	fmt.Printf("Output file:     %s\n", outputPath)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	return nil
}

// loadAndValidate reads the configured CSV exports and validates every row.
func loadAndValidate(cfg *config.Config) ([]types.ExpenseRow, []types.InvoiceRow, []*validation.ValidationError, error) {
	var expenses []types.ExpenseRow
	var invoices []types.InvoiceRow
	var rowErrs []*validation.ValidationError

	if cfg.ExpensesFile != "" {
		raw, err := csvparser.Load(cfg.ExpensesFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load expenses: %w", err)
		}
		valid, errs := validation.ValidateExpenses(raw)
		expenses = valid
		rowErrs = append(rowErrs, errs...)
		log.Info("expenses loaded", "file", cfg.ExpensesFile, "rows", len(raw), "valid", len(valid))
	}

	if cfg.InvoicesFile != "" {
		raw, err := csvparser.Load(cfg.InvoicesFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load invoices: %w", err)
		}
		valid, errs := validation.ValidateInvoices(raw)
		invoices = valid
		rowErrs = append(rowErrs, errs...)
		log.Info("invoices loaded", "file", cfg.InvoicesFile, "rows", len(raw), "valid", len(valid))
	}

	return expenses, invoices, rowErrs, nil
}

// writeOutputs writes the payment file and the skip report, then archives
// the processed input files.
func writeOutputs(cfg *config.Config, result *generator.Result, rowErrs []*validation.ValidationError) (string, error) {
	fm := utils.NewFileManager(cfg.OutputDir, cfg.ArchiveDir, cfg.ArchiveOnSuccess)
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	fileName := utils.OutputFileName(cfg.OutputNameFormat, result.Totals.GeneratedAt)
	outputPath, err := fm.WriteOutputFile(fileName, result.Content)
	if err != nil {
		return "", fmt.Errorf("failed to write payment file: %w", err)
	}
	log.Info("payment file written", "path", outputPath)

	var reportLines []string
	for _, verr := range rowErrs {
		reportLines = append(reportLines, verr.Error())
	}
	for _, skipped := range result.Skipped {
		reportLines = append(reportLines,
			fmt.Sprintf("%s row %d: %s", skipped.Kind, skipped.RowNumber, skipped.Reason))
	}
	reportName := utils.OutputFileName("skipped_{timestamp}.txt", result.Totals.GeneratedAt)
	if reportPath, err := fm.WriteReport(reportName, reportLines); err != nil {
		return "", fmt.Errorf("failed to write skip report: %w", err)
	} else if reportPath != "" {
		log.Info("skip report written", "path", reportPath, "rows", len(reportLines))
	}

	for _, input := range []string{cfg.ExpensesFile, cfg.InvoicesFile} {
		if input == "" {
			continue
		}
		dest, err := fm.ArchiveInputFile(input, result.Totals.GeneratedAt)
		if err != nil {
			log.Error("failed to archive input", "file", input, "err", err)
			continue
		}
		if dest != "" {
			log.Info("input archived", "file", input, "dest", dest)
		}
	}

	return outputPath, nil
}
