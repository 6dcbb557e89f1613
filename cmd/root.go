// =============================================================================
// PO3 Payment File Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (po3gen)
//   ├── generateCmd (po3gen generate)
//   ├── validateCmd (po3gen validate)
//   └── versionCmd (po3gen version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "po3gen",
	Short: "PO3 payment file generator - batch expense and invoice payments for the bank",
	Long: `po3gen turns exported expense claims and invoice payments into a PO3
payment file ready for upload to the bank's payment processing system.

Rows are validated strictly; rows that fail validation are skipped and
reported individually, and the batch continues without them. The output is
a fixed-width, 80-character-per-line UTF-8 text file with one header, one
block of payment records per row, and one trailer carrying the batch totals.

Example Usage:
  po3gen generate                      # Generate a payment file
  po3gen generate --dry-run            # Validate and assemble, write nothing
  po3gen validate                      # Check configuration and input rows`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
