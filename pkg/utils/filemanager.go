// =============================================================================
// PO3 Payment File Generator - File Manager Utility
// =============================================================================
//
// This module provides the file operations around generation:
//   - Directory bootstrap
//   - Writing the payment file (write-then-rename, so a failed run never
//     leaves a partial file behind)
//   - Archival of processed input files
//   - Skip-report writing
//   - Output file naming
//
// The generation core itself performs no I/O; everything that touches the
// filesystem lives here or in cmd.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the generator.
type FileManager struct {
	// OutputDir is the directory payment files are written to.
	OutputDir string

	// ArchiveDir is the directory processed input files are moved to.
	ArchiveDir string

	// ArchiveOnSuccess determines whether input files are archived after a
	// payment file has been written.
	ArchiveOnSuccess bool
}

// NewFileManager creates a FileManager for the given directories.
func NewFileManager(outputDir, archiveDir string, archiveOnSuccess bool) *FileManager {
	return &FileManager{
		OutputDir:        outputDir,
		ArchiveDir:       archiveDir,
		ArchiveOnSuccess: archiveOnSuccess,
	}
}

// EnsureDirectories creates the output and archive directories if missing.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// WriteOutputFile writes content to fileName in the output directory and
// returns the full path. The content is written to a temporary file first
// and renamed into place, so readers never observe a partial file.
func (fm *FileManager) WriteOutputFile(fileName, content string) (string, error) {
	outPath := filepath.Join(fm.OutputDir, fileName)

	tmp, err := os.CreateTemp(fm.OutputDir, fileName+".tmp*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move output into place: %w", err)
	}

	return outPath, nil
}

// WriteReport writes report lines next to the payment files, one per line.
// A nil or empty report writes nothing and removes no existing file.
func (fm *FileManager) WriteReport(fileName string, lines []string) (string, error) {
	if len(lines) == 0 {
		return "", nil
	}
	return fm.WriteOutputFile(fileName, strings.Join(lines, "\n")+"\n")
}

// =============================================================================
// ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a processed input file into the archive directory,
// prefixing the name with a timestamp so repeated exports never collide.
func (fm *FileManager) ArchiveInputFile(inputPath string, now time.Time) (string, error) {
	if !fm.ArchiveOnSuccess {
		return "", nil
	}
	name := fmt.Sprintf("%s_%s", now.Format("20060102_150405"), filepath.Base(inputPath))
	dest := filepath.Join(fm.ArchiveDir, name)
	if err := os.Rename(inputPath, dest); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", inputPath, err)
	}
	return dest, nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// OutputFileName expands the output name format.
// Supported placeholders: {timestamp}, {uuid}.
func OutputFileName(format string, now time.Time) string {
	name := format
	name = strings.ReplaceAll(name, "{timestamp}", now.Format("20060102_150405"))
	name = strings.ReplaceAll(name, "{uuid}", uuid.New().String())
	return name
}
