// =============================================================================
// Gift Card Intake - Main Entry Point
// =============================================================================
//
// USAGE:
//   giftcards template   - Write the bulk upload template
//   giftcards check      - Preview how the rows of a CSV classify
//   giftcards import     - Import the cards of a CSV
//   giftcards add        - Add a single card
//   giftcards serve      - Run the HTTP API for the web form
//   giftcards version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Intake pipeline, loaders, exports and the HTTP API
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/giftcard-intake/cmd"
)

func main() {
	cmd.Execute()
}
