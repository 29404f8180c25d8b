// =============================================================================
// Gift Card Intake - Add Command
// =============================================================================
//
// COMMAND USAGE:
//   giftcards add --store Target --last4 5678 --amount 50.00 --added-by "Mike Davis"
//
// Runs one card through the guided intake: validation, duplicate check and
// commit. A duplicate is only committed with --confirm-duplicate; without it
// the match is printed and the command fails so scripts can tell.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/giftcard-intake/internal/intake"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
)

// errNotCommitted is returned when the card was left uncommitted.
var errNotCommitted = errors.New("card not committed")

var (
	addCandidate        types.CandidateRecord
	addDate             string
	addConfirmDuplicate bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a single card",
	Long: `Validate a single card, check it for duplicates and commit it.

A card with the same store (any casing) and the same last four digits as an
existing card is a duplicate. Duplicates are committed only when
--confirm-duplicate is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addCandidate.Store, "store", "", "Store name")
	addCmd.Flags().StringVar(&addCandidate.Last4, "last4", "", "Last four digits of the card number")
	addCmd.Flags().StringVar(&addCandidate.Amount, "amount", "", "Card balance, e.g. 50.00")
	addCmd.Flags().StringVar(&addCandidate.AddedBy, "added-by", "", "Who is adding the card")
	addCmd.Flags().StringVar(&addCandidate.Notes, "notes", "", "Optional notes")
	addCmd.Flags().StringVar(&addDate, "date", "", "Date added, YYYY-MM-DD (default today)")
	addCmd.Flags().BoolVar(&addConfirmDuplicate, "confirm-duplicate", false, "Commit even if the card is a duplicate")
}

func runAdd(cmd *cobra.Command, stdout io.Writer) error {
	candidate := addCandidate
	if addDate != "" {
		d, err := time.Parse(time.DateOnly, addDate)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		candidate.DateAdded = d
	}

	sess, err := newSession(cmd.Context())
	if err != nil {
		return err
	}

	machine := intake.New(sess.ledger)
	state, err := machine.Submit(candidate)
	if err != nil {
		return err
	}

	switch state.Stage {
	case intake.StageForm:
		fmt.Fprintln(stdout, "The card has errors:")
		for _, field := range sortedFields(state.Errors) {
			fmt.Fprintf(stdout, "  %-8s %s\n", field+":", state.Errors[field])
		}
		return errNotCommitted

	case intake.StageConfirmDuplicate:
		printDuplicate(stdout, state.Duplicate)
		if !addConfirmDuplicate {
			fmt.Fprintln(stdout, "Re-run with --confirm-duplicate to add it anyway.")
			return fmt.Errorf("%w: duplicate of card %d", errNotCommitted, state.Duplicate.ID)
		}
		if state, err = machine.Confirm(); err != nil {
			return err
		}
	}

	rec := state.Committed
	fmt.Fprintf(stdout, "Card added: #%d %s ****%s $%s (added by %s on %s)\n",
		rec.ID, rec.Store, rec.Last4, rec.Amount.StringFixed(2), rec.AddedBy, rec.DateAdded.Format(time.DateOnly))
	return nil
}

func printDuplicate(w io.Writer, d *types.PoolRecord) {
	fmt.Fprintln(w, "Possible duplicate:")
	fmt.Fprintf(w, "  Card:       #%d %s ****%s (%s)\n", d.ID, d.Store, d.Last4, d.Source)
	fmt.Fprintf(w, "  Balance:    $%s\n", d.Balance.StringFixed(2))
	fmt.Fprintf(w, "  Added:      %s by %s\n", d.AddedDate, d.AddedBy)
}

func sortedFields(errs types.FieldErrors) []string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
