// =============================================================================
// PO3 Payment File Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the po3gen CLI application. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   po3gen generate      - Generate a PO3 payment file from the configured inputs
//   po3gen validate      - Validate configuration and input rows without generating
//   po3gen version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Core business logic (not for external import)
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/klubbkassan/po3-generator/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
