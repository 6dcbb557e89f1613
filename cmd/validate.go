// =============================================================================
// PO3 Payment File Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command: it runs the full configuration
// and row validation without assembling or writing anything, so operators
// can fix source data before a payment run.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klubbkassan/po3-generator/internal/config"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and input rows without generating",
	Long: `The validate command loads the configuration and the configured CSV
exports, validates every row, and prints each problem with its file, row
number and reason. No payment file is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate loads and validates everything, then prints a report.
func runValidate() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	expenses, invoices, rowErrs, err := loadAndValidate(cfg)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Validation Report ===")
	fmt.Printf("Valid expenses:  %d\n", len(expenses))
	fmt.Printf("Valid invoices:  %d\n", len(invoices))
	fmt.Printf("Rejected rows:   %d\n", len(rowErrs))

	for _, verr := range rowErrs {
		fmt.Printf("  ✗ %s\n", verr.Error())
	}

	if len(rowErrs) > 0 {
		return fmt.Errorf("%d row(s) failed validation", len(rowErrs))
	}
	return nil
}
