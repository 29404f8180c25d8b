package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/giftcard-intake/internal/config"
	"github.com/ginjaninja78/giftcard-intake/internal/csvparser"
	"github.com/ginjaninja78/giftcard-intake/internal/types"
)

// setup writes a dataset holding one Target card and a config pointing at
// it, and returns the config path.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cards := []map[string]any{{
		"id": 1, "store": "Target", "last4": "5678", "initialBalance": 50, "remainingBalance": 20,
		"status": "active", "addedDate": "2024-01-01", "addedBy": "Lisa Chen",
	}}
	data, err := json.Marshal(cards)
	require.NoError(t, err)
	datasetPath := filepath.Join(dir, "cards.json")
	require.NoError(t, os.WriteFile(datasetPath, data, 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "dataset_path: " + datasetPath + "\nlog_level: error\nlog_format: json\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

// run executes the CLI with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, verbose = config.DefaultPath, false
	templateOut, templateXLSX = "", false
	checkFile, checkErrorLog = "", ""
	importFile, importPolicy, importExport = "", string(types.PolicyValidOnly), ""
	addCandidate, addDate, addConfirmDuplicate = types.CandidateRecord{}, "", false
	serveAddr, versionShort = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestTemplateCommand(t *testing.T) {
	out, err := run(t, "template")
	require.NoError(t, err)
	assert.Equal(t, string(csvparser.Template()), out)

	path := filepath.Join(t.TempDir(), "template.xlsx")
	_, err = run(t, "template", "--xlsx", "--out", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, csvparser.Columns, rows[0])
}

func TestCheckCommand(t *testing.T) {
	cfg := setup(t)
	file := writeCSV(t, "store,last4,amount,added_by,notes\n"+
		"Walmart,1234,100.00,Sarah Johnson,\n"+
		"target,5678,50.00,Mike Davis,\n"+
		"Kroger,12,25.00,Mike Davis,\n")
	logDir := t.TempDir()

	out, err := run(t, "--config", cfg, "check", "--file", file, "--error-log", logDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Valid:                1")
	assert.Contains(t, out, "Duplicates:           1")
	assert.Contains(t, out, "Errors:               1")
	assert.Contains(t, out, "Last 4 must be exactly 4 digits")

	logs, err := os.ReadDir(logDir)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestCheckCommand_RejectsNonCSV(t *testing.T) {
	cfg := setup(t)
	path := filepath.Join(t.TempDir(), "cards.txt")
	require.NoError(t, os.WriteFile(path, []byte("a,b"), 0o644))

	_, err := run(t, "--config", cfg, "check", "--file", path)
	assert.ErrorIs(t, err, csvparser.ErrUnsupportedFile)
}

func TestImportCommand(t *testing.T) {
	cfg := setup(t)
	file := writeCSV(t, string(csvparser.Template()))
	exportPath := filepath.Join(t.TempDir(), "added.csv")

	out, err := run(t, "--config", cfg, "import", "--file", file, "--policy", "include-duplicates", "--export", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Committed:            2 (include-duplicates)")

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), ",Walmart,1234,100.00,Sarah Johnson,Example card,")
	assert.Contains(t, string(data), ",Target,5678,50.00,Mike Davis,,")
}

func TestImportCommand_ExportXML(t *testing.T) {
	cfg := setup(t)
	file := writeCSV(t, string(csvparser.Template()))
	exportPath := filepath.Join(t.TempDir(), "added.xml")

	_, err := run(t, "--config", cfg, "import", "--file", file, "--export", exportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<giftCards count="1">`)
	assert.Contains(t, string(data), "<Store>Walmart</Store>")
}

func TestImportCommand_ValidOnlySkipsDuplicates(t *testing.T) {
	cfg := setup(t)
	file := writeCSV(t, string(csvparser.Template()))

	out, err := run(t, "--config", cfg, "import", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Committed:            1 (valid-only)")
}

func TestImportCommand_BadFlags(t *testing.T) {
	cfg := setup(t)
	file := writeCSV(t, string(csvparser.Template()))

	_, err := run(t, "--config", cfg, "import", "--file", file, "--policy", "everything")
	assert.ErrorContains(t, err, "unknown policy")

	_, err = run(t, "--config", cfg, "import", "--file", file, "--export", "out.json")
	assert.ErrorContains(t, err, ".csv, .xlsx or .xml")
}

func TestAddCommand(t *testing.T) {
	cfg := setup(t)

	t.Run("new card", func(t *testing.T) {
		out, err := run(t, "--config", cfg, "add",
			"--store", "Walmart", "--last4", "0012", "--amount", "25", "--added-by", "Sarah Johnson", "--date", "2024-03-15")
		require.NoError(t, err)
		assert.Contains(t, out, "Card added: #1000000 Walmart ****0012 $25.00 (added by Sarah Johnson on 2024-03-15)")
	})

	t.Run("duplicate needs confirmation", func(t *testing.T) {
		out, err := run(t, "--config", cfg, "add",
			"--store", "TARGET", "--last4", "5678", "--amount", "50.00", "--added-by", "Mike Davis")
		assert.ErrorIs(t, err, errNotCommitted)
		assert.Contains(t, out, "Possible duplicate:")
		assert.Contains(t, out, "Added:      2024-01-01 by Lisa Chen")
		assert.NotContains(t, out, "Card added")
	})

	t.Run("confirmed duplicate", func(t *testing.T) {
		out, err := run(t, "--config", cfg, "add",
			"--store", "TARGET", "--last4", "5678", "--amount", "50.00", "--added-by", "Mike Davis", "--confirm-duplicate")
		require.NoError(t, err)
		assert.Contains(t, out, "Card added:")
	})

	t.Run("invalid fields", func(t *testing.T) {
		out, err := run(t, "--config", cfg, "add", "--store", "Walmart", "--last4", "12", "--amount", "0")
		assert.ErrorIs(t, err, errNotCommitted)
		assert.Contains(t, out, "Must be exactly 4 digits")
		assert.Contains(t, out, "Enter a valid dollar amount")
		assert.Contains(t, out, "Added by is required")
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "giftcards "+Version+" (built "))

	out, err = run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
