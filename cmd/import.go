// =============================================================================
// Gift Card Intake - Import Command
// =============================================================================
//
// COMMAND USAGE:
//   giftcards import --file cards.csv [--policy valid-only] [--export out.xml]
//
// FLAGS:
//   --file    : The CSV to import
//   --policy  : valid-only (default) or include-duplicates
//   --export  : Write the session's committed cards to .csv, .xlsx or .xml
//
// IMPORT PIPELINE:
//   1. Load configuration and the existing dataset
//   2. Read and classify the CSV rows
//   3. Commit the rows the policy selects, in file order
//   4. Print the summary and optionally export the session ledger
//
// Error rows are never imported under any policy.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/giftcard-intake/internal/export"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/internal/xmlwriter"
	"github.com/ginjaninja78/giftcard-intake/pkg/utils"
)

var (
	// importFile is the CSV to import.
	importFile string

	// importPolicy selects which rows are committed.
	importPolicy string

	// importExport is an optional ledger export path.
	importExport string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the cards of a CSV file",
	Long: `Parse a bulk upload CSV and commit its rows to a new session.

Policies:
  valid-only          commit rows whose status is valid
  include-duplicates  also commit rows that match an existing card

Rows with validation errors are never imported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file to import")
	importCmd.Flags().StringVar(&importPolicy, "policy", string(types.PolicyValidOnly), "valid-only or include-duplicates")
	importCmd.Flags().StringVar(&importExport, "export", "", "Export the committed cards to this .csv, .xlsx or .xml file")
	importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, stdout io.Writer) error {
	startTime := time.Now()

	policy, ok := types.ParsePolicy(importPolicy)
	if !ok {
		return fmt.Errorf("unknown policy %q (want valid-only or include-duplicates)", importPolicy)
	}

	exportFn, err := exporterFor(importExport)
	if err != nil {
		return err
	}

	sess, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	rows, err := readRows(importFile, sess)
	if err != nil {
		return err
	}

	committed, err := sess.ledger.ImportRows(rows, policy)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	printSummary(stdout, rows)
	fmt.Fprintf(stdout, "Committed:            %d (%s)\n", committed, policy)
	fmt.Fprintf(stdout, "Time elapsed:         %s\n", time.Since(startTime).Round(time.Millisecond))

	if exportFn != nil {
		records := sess.ledger.All()
		err := utils.WriteFileAtomic(importExport, func(w io.Writer) error {
			return exportFn(w, records)
		})
		if err != nil {
			return fmt.Errorf("failed to export cards: %w", err)
		}
		fmt.Fprintf(stdout, "Cards exported to %s\n", importExport)
	}

	return nil
}

// ledgerExporter renders committed records to a writer.
type ledgerExporter func(w io.Writer, records []types.CommittedRecord) error

// exporterFor picks the export format from the file extension. An empty
// path means no export.
func exporterFor(path string) (ledgerExporter, error) {
	switch {
	case path == "":
		return nil, nil
	case utils.HasExtension(path, ".csv"):
		return export.LedgerCSV, nil
	case utils.HasExtension(path, ".xlsx"):
		return export.LedgerXLSX, nil
	case utils.HasExtension(path, ".xml"):
		return xmlwriter.Generate, nil
	default:
		return nil, fmt.Errorf("export file %q must end in .csv, .xlsx or .xml", path)
	}
}
