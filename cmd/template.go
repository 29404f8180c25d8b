// =============================================================================
// Gift Card Intake - Template Command
// =============================================================================
//
// COMMAND USAGE:
//   giftcards template [--out cards.csv] [--xlsx]
//
// Writes the bulk upload template: a header row and two example cards. The
// CSV form is byte-for-byte the file the web form offers for download.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/giftcard-intake/internal/csvparser"
	"github.com/ginjaninja78/giftcard-intake/internal/export"
	"github.com/ginjaninja78/giftcard-intake/pkg/utils"
)

var (
	// templateOut is the destination file; empty means stdout.
	templateOut string

	// templateXLSX selects the workbook form of the template.
	templateXLSX bool
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the bulk upload template",
	Long: `Write the bulk upload template: a header row (store,last4,amount,added_by,notes)
followed by two example cards. Use --xlsx for a workbook instead of CSV.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTemplate(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringVarP(&templateOut, "out", "o", "", "Write to this file instead of stdout")
	templateCmd.Flags().BoolVar(&templateXLSX, "xlsx", false, "Write an XLSX workbook instead of CSV")
}

func runTemplate(stdout io.Writer) error {
	write := func(w io.Writer) error {
		if templateXLSX {
			return export.TemplateXLSX(w)
		}
		_, err := w.Write(csvparser.Template())
		return err
	}

	if templateOut == "" {
		return write(stdout)
	}

	if err := utils.WriteFileAtomic(templateOut, write); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	fmt.Fprintf(stdout, "Template written to %s\n", templateOut)
	return nil
}
