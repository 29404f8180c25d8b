// =============================================================================
// Gift Card Intake - File Utilities
// =============================================================================
//
// This module provides the small file helpers shared by the commands and the
// HTTP layer:
//   - Extension checks for uploads and datasets
//   - Atomic writes for generated files (template, ledger export)
//   - Download and export file naming
//   - The row error log written by `check --error-log`
//
// ATOMIC WRITES:
//   Output is written to a temporary file in the target directory and
//   renamed into place, so a failed export never leaves a truncated file
//   where an earlier good one stood.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// EXTENSIONS
// =============================================================================

// HasExtension reports whether name ends in one of exts, ignoring case.
// Each ext includes its leading dot.
func HasExtension(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic creates path with the content produced by write.
//
// PARAMETERS:
//   - path: The destination file. Its directory is created if missing.
//   - write: Produces the content. If it fails, path is left untouched.
//
// RETURNS:
//   - An error if the content cannot be produced or the file cannot be
//     put in place.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	buffered := bufio.NewWriter(tmp)
	if err := write(buffered); err != nil {
		tmp.Close()
		return err
	}
	if err := buffered.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateFileName expands a file name pattern.
//
// PARAMETERS:
//   - format: The pattern. Placeholders:
//       {uuid}      - A random UUID
//       {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//       {date}      - Date (YYYYMMDD)
//       any key of params, in braces
//   - params: Extra placeholder values.
//   - ext: The extension to ensure, with its dot.
//
// EXAMPLE:
//   GenerateFileName("giftcards_{date}", nil, ".csv", now)
//   -> "giftcards_20240315.csv"
func GenerateFileName(format string, params map[string]string, ext string, now time.Time) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry is one rejected CSV row.
type ErrorLogEntry struct {
	RowNumber int
	Store     string
	Last4     string
	Messages  []string
}

// WriteErrorLog writes a plain text report of rejected rows to outputDir.
//
// RETURNS:
//   - The path of the log, or "" when there was nothing to report.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, source, outputDir string, now time.Time) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logName := fmt.Sprintf("error_log_%s.txt", now.Format("20060102_150405"))
	logPath := filepath.Join(outputDir, logName)

	err := WriteFileAtomic(logPath, func(w io.Writer) error {
		fmt.Fprintf(w, "Gift Card Intake - Error Log\n"+
			"Source:       %s\n"+
			"Generated:    %s\n"+
			"Rejected:     %d\n"+
			"================================================================================\n\n",
			source, now.Format("2006-01-02 15:04:05"), len(entries))

		for _, entry := range entries {
			fmt.Fprintf(w, "Row %d\n", entry.RowNumber)
			if entry.Store != "" || entry.Last4 != "" {
				fmt.Fprintf(w, "  Card:    %s / %s\n", entry.Store, entry.Last4)
			}
			for _, msg := range entry.Messages {
				fmt.Fprintf(w, "  - %s\n", msg)
			}
			fmt.Fprintln(w)
		}

		_, err := io.WriteString(w, "================================================================================\n"+
			"End of Error Log\n")
		return err
	})
	if err != nil {
		return "", err
	}
	return logPath, nil
}
