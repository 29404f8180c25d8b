// =============================================================================
// Gift Card Intake - XML Writer Module
// =============================================================================
//
// This module renders the session's committed cards as an XML document for
// systems that take inventory updates as a bulk XML upload.
//
// XML STRUCTURE:
//
//   <giftCards session="6f1c..." count="2">   <!-- Root element -->
//     <card n="1" id="1000000">               <!-- One element per card -->
//       <Store>Walmart</Store>
//       <Last4>1234</Last4>
//       <Amount>100.00</Amount>
//       <AddedBy>Sarah Johnson</AddedBy>
//       <Notes>Example card</Notes>
//       <DateAdded>2024-03-15</DateAdded>
//     </card>
//   </giftCards>
//
// Cards appear in commit order and n numbers them from 1. Empty notes are
// omitted. Amounts always carry two decimals.
//
// =============================================================================

package xmlwriter

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// SessionID is written on the root element when set.
	SessionID string

	// Indent is the indentation string. Empty writes a single line.
	// Default: "  "
	Indent string

	// IncludeDeclaration writes the <?xml ...?> header.
	// Default: true
	IncludeDeclaration bool
}

// DefaultGenerateOptions returns the default options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:             "  ",
		IncludeDeclaration: true,
	}
}

// =============================================================================
// XML DOCUMENT
// =============================================================================

type document struct {
	XMLName xml.Name      `xml:"giftCards"`
	Session string        `xml:"session,attr,omitempty"`
	Count   int           `xml:"count,attr"`
	Cards   []cardElement `xml:"card"`
}

type cardElement struct {
	N         int    `xml:"n,attr"`
	ID        int64  `xml:"id,attr"`
	Store     string `xml:"Store"`
	Last4     string `xml:"Last4"`
	Amount    string `xml:"Amount"`
	AddedBy   string `xml:"AddedBy"`
	Notes     string `xml:"Notes,omitempty"`
	DateAdded string `xml:"DateAdded"`
}

// =============================================================================
// XML GENERATION
// =============================================================================

// Generate writes the ledger XML with the default options.
func Generate(w io.Writer, records []types.CommittedRecord) error {
	return GenerateWithOptions(w, records, DefaultGenerateOptions())
}

// GenerateWithOptions writes the ledger XML.
//
// PARAMETERS:
//   - w: The destination.
//   - records: The committed cards, in commit order.
//   - options: Formatting options.
//
// RETURNS:
//   - An error if encoding or writing fails.
func GenerateWithOptions(w io.Writer, records []types.CommittedRecord, options GenerateOptions) error {
	doc := document{
		Session: options.SessionID,
		Count:   len(records),
		Cards:   make([]cardElement, 0, len(records)),
	}
	for i, r := range records {
		doc.Cards = append(doc.Cards, cardElement{
			N:         i + 1,
			ID:        r.ID,
			Store:     r.Store,
			Last4:     r.Last4,
			Amount:    r.Amount.StringFixed(2),
			AddedBy:   r.AddedBy,
			Notes:     r.Notes,
			DateAdded: r.DateAdded.Format(time.DateOnly),
		})
	}

	if options.IncludeDeclaration {
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return fmt.Errorf("failed to write XML declaration: %w", err)
		}
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", options.Indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}
