// =============================================================================
// Gift Card Intake - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (giftcards)
//   ├── templateCmd (giftcards template)
//   ├── checkCmd    (giftcards check)
//   ├── importCmd   (giftcards import)
//   ├── addCmd      (giftcards add)
//   ├── serveCmd    (giftcards serve)
//   └── versionCmd  (giftcards version)
//
// SESSION SETUP:
//   Commands that touch cards share one setup step (newSession):
//   1. Load the configuration file
//   2. Build the logger (--verbose forces debug)
//   3. Load the pre-existing dataset
//   4. Open an empty session ledger over it
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/giftcard-intake/internal/config"
	"github.com/ginjaninja78/giftcard-intake/internal/dataset"
	"github.com/ginjaninja78/giftcard-intake/internal/ledger"
	"github.com/ginjaninja78/giftcard-intake/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "giftcards",
	Short: "Gift Card Intake - register prepaid gift cards one at a time or in bulk",
	Long: `Gift Card Intake registers prepaid gift cards into an inventory.

Cards are validated field by field and checked for duplicates (same store,
same last four digits) against the existing inventory and against every
card added earlier in the session. A duplicate is a warning, never a block:
the operator confirms it explicitly.

Example Usage:
  giftcards template --out cards.csv                 # Start a bulk upload file
  giftcards check --file cards.csv                   # Preview how each row classifies
  giftcards import --file cards.csv --policy valid-only --export added.xlsx
  giftcards add --store Target --last4 5678 --amount 50 --added-by "Mike Davis"
  giftcards serve                                    # Run the HTTP API`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SESSION SETUP
// =============================================================================

// session is what a command needs to work with cards.
type session struct {
	cfg    *config.MainConfig
	log    zerolog.Logger
	ledger *ledger.Ledger
}

// loadConfig reads the configuration and builds the logger.
func loadConfig() (*config.MainConfig, zerolog.Logger, error) {
	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	return cfg, log, nil
}

// newSession loads the configuration and the existing dataset and opens an
// empty ledger.
func newSession(ctx context.Context) (*session, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	existing, err := dataset.Load(ctx, cfg.DatasetPath, cfg.DatasetTable)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	l := ledger.New(existing, ledger.Options{
		IDBase: cfg.SessionIDBase,
		Logger: &log,
	})

	log.Info().
		Str("session", l.SessionID().String()).
		Str("dataset", cfg.DatasetPath).
		Int("existing", len(existing)).
		Msg("Session started")

	return &session{cfg: cfg, log: log, ledger: l}, nil
}
