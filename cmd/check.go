// =============================================================================
// Gift Card Intake - Check Command
// =============================================================================
//
// COMMAND USAGE:
//   giftcards check --file cards.csv [--error-log ./logs]
//
// Parses a bulk upload file and prints how every row classifies (valid,
// duplicate or error) without committing anything. This is the preview an
// operator sees before choosing an import policy.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/giftcard-intake/internal/csvparser"
	"github.com/ginjaninja78/giftcard-intake/internal/ledger"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/pkg/utils"
)

var (
	// checkFile is the CSV to preview.
	checkFile string

	// checkErrorLog is a directory for a report of rejected rows.
	checkErrorLog string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Preview how each row of a CSV file classifies",
	Long: `Parse a bulk upload CSV and print every row with its status. Rows are
checked against the existing inventory only. Nothing is committed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "CSV file to check")
	checkCmd.Flags().StringVar(&checkErrorLog, "error-log", "", "Write rejected rows to a log in this directory")
	checkCmd.MarkFlagRequired("file")
}

func runCheck(cmd *cobra.Command, stdout io.Writer) error {
	sess, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	rows, err := readRows(checkFile, sess)
	if err != nil {
		return err
	}

	printRows(stdout, rows)
	printSummary(stdout, rows)

	if checkErrorLog != "" {
		path, err := utils.WriteErrorLog(errorLogEntries(rows), filepath.Base(checkFile), checkErrorLog, time.Now())
		if err != nil {
			return fmt.Errorf("failed to write error log: %w", err)
		}
		if path != "" {
			fmt.Fprintf(stdout, "Rejected rows logged to %s\n", path)
		}
	}

	return nil
}

// readRows reads and classifies a CSV file against the session's existing
// dataset.
func readRows(path string, sess *session) ([]types.CSVRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	text, err := csvparser.ReadUpload(filepath.Base(path), f, sess.cfg.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	rows := csvparser.Parse(text, sess.ledger.Existing())
	sess.log.Debug().Str("file", path).Int("rows", len(rows)).Msg("CSV parsed")
	return rows, nil
}

func printRows(w io.Writer, rows []types.CSVRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tSTATUS\tSTORE\tLAST4\tAMOUNT\tADDED BY\tERRORS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RowNumber, r.Status, r.Store, r.Last4, r.Amount, r.AddedBy, strings.Join(r.Errors, "; "))
	}
	tw.Flush()
}

func printSummary(w io.Writer, rows []types.CSVRow) {
	s := csvparser.Summarize(rows)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total rows:           %d\n", s.Total)
	fmt.Fprintf(w, "Valid:                %d\n", s.Valid)
	fmt.Fprintf(w, "Duplicates:           %d\n", s.Duplicates)
	fmt.Fprintf(w, "Errors:               %d\n", s.Errors)
	fmt.Fprintf(w, "Importable (valid):   %d\n", ledger.Selectable(rows, types.PolicyValidOnly))
	fmt.Fprintf(w, "Importable (all):     %d\n", ledger.Selectable(rows, types.PolicyIncludeDuplicates))
}

func errorLogEntries(rows []types.CSVRow) []utils.ErrorLogEntry {
	var entries []utils.ErrorLogEntry
	for _, r := range rows {
		if r.Status != types.StatusError {
			continue
		}
		entries = append(entries, utils.ErrorLogEntry{
			RowNumber: r.RowNumber,
			Store:     r.Store,
			Last4:     r.Last4,
			Messages:  r.Errors,
		})
	}
	return entries
}
