// =============================================================================
// Gift Card Intake - Existing Dataset Loader
// =============================================================================
//
// This module loads the read-only inventory of cards that were on file before
// the session started. The loader is chosen by file extension:
//
//   .json            array of records
//   .yaml / .yml     sequence of records
//   .xlsx            first sheet, see xlsxparser
//   .db / .sqlite /
//   .sqlite3         one table, see LoadSQLite
//
// Records are returned in source order. That order is the canonical order of
// the duplicate pool, so the first matching record in the file is the one a
// duplicate warning shows.
//
// =============================================================================

package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/ginjaninja78/giftcard-intake/internal/xlsxparser"
	"gopkg.in/yaml.v3"
)

// DefaultTable is the SQLite table read when none is configured.
const DefaultTable = "gift_cards"

// Load reads the dataset at path. An empty path yields an empty dataset.
func Load(ctx context.Context, path, table string) ([]types.ExistingRecord, error) {
	if path == "" {
		return []types.ExistingRecord{}, nil
	}

	var (
		records []types.ExistingRecord
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		records, err = loadJSON(path)
	case ".yaml", ".yml":
		records, err = loadYAML(path)
	case ".xlsx":
		records, err = xlsxparser.Parse(path)
	case ".db", ".sqlite", ".sqlite3":
		records, err = LoadSQLite(ctx, path, table)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}

	return normalize(records), nil
}

func loadJSON(path string) ([]types.ExistingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []types.ExistingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return records, nil
}

func loadYAML(path string) ([]types.ExistingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []types.ExistingRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return records, nil
}

// normalize trims text fields and lowercases the status. Store casing is
// kept as written; duplicate matching ignores it anyway.
func normalize(records []types.ExistingRecord) []types.ExistingRecord {
	if records == nil {
		return []types.ExistingRecord{}
	}
	for i := range records {
		r := &records[i]
		r.Store = strings.TrimSpace(r.Store)
		r.Last4 = strings.TrimSpace(r.Last4)
		r.Status = strings.ToLower(strings.TrimSpace(r.Status))
		r.AddedDate = strings.TrimSpace(r.AddedDate)
		r.AddedBy = strings.TrimSpace(r.AddedBy)
	}
	return records
}
