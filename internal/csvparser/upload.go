package csvparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/giftcard-intake/pkg/utils"
)

// =============================================================================
// UPLOAD ERRORS
// =============================================================================

var (
	// ErrUnsupportedFile is returned for uploads without a .csv extension.
	ErrUnsupportedFile = errors.New("only .csv files are supported")

	// ErrUnreadableFile is returned when the content cannot be read as UTF-8
	// text within the size limit.
	ErrUnreadableFile = errors.New("file could not be read")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// UPLOAD READER
// =============================================================================

// ReadUpload reads an uploaded file into text before parsing begins.
//
// PARAMETERS:
//   - name: The client-side file name; only its extension is checked.
//   - r: The file content.
//   - limit: Maximum number of bytes accepted. Zero or less means no limit.
//
// RETURNS:
//   - The decoded text, without a leading byte order mark.
//   - ErrUnsupportedFile or ErrUnreadableFile (wrapped) on rejection. A
//     rejected file yields no text and therefore no rows.
func ReadUpload(name string, r io.Reader, limit int64) (string, error) {
	if !utils.HasExtension(name, ".csv") {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFile, name)
	}

	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrUnreadableFile, limit)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: content is not UTF-8 text", ErrUnreadableFile)
	}

	return string(data), nil
}

// =============================================================================
// TEMPLATE
// =============================================================================

// templateRows are the header and the two example cards operators start from.
var templateRows = [][]string{
	Columns,
	{"Walmart", "1234", "100.00", "Sarah Johnson", "Example card"},
	{"Target", "5678", "50.00", "Mike Davis", ""},
}

// Template returns the downloadable CSV template. The bytes are fixed so
// spreadsheet tools see the same file every time.
func Template() []byte {
	lines := make([]string, len(templateRows))
	for i, row := range templateRows {
		lines[i] = strings.Join(row, ",")
	}
	return []byte(strings.Join(lines, "\n"))
}

// TemplateRows returns a copy of the template as cells, header first.
func TemplateRows() [][]string {
	out := make([][]string, len(templateRows))
	for i, row := range templateRows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
