package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads every row of table, ordered by rowid. The table must have
// the columns id, store, last4, initial_balance, remaining_balance, status,
// added_date and added_by. The file must already exist.
func LoadSQLite(ctx context.Context, path, table string) ([]types.ExistingRecord, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	// Balances come back as text so they reach decimal without a float
	// round trip.
	query := fmt.Sprintf(`SELECT
		id,
		COALESCE(store, ''),
		COALESCE(CAST(last4 AS TEXT), ''),
		COALESCE(CAST(initial_balance AS TEXT), '0'),
		COALESCE(CAST(remaining_balance AS TEXT), '0'),
		COALESCE(status, ''),
		COALESCE(CAST(added_date AS TEXT), ''),
		COALESCE(added_by, '')
	FROM %q ORDER BY rowid`, table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	records := []types.ExistingRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (types.ExistingRecord, error) {
	var rec types.ExistingRecord
	var initial, remaining string

	err := rows.Scan(
		&rec.ID, &rec.Store, &rec.Last4, &initial, &remaining,
		&rec.Status, &rec.AddedDate, &rec.AddedBy,
	)
	if err != nil {
		return rec, fmt.Errorf("scan: %w", err)
	}

	if rec.InitialBalance, err = decimal.NewFromString(initial); err != nil {
		return rec, fmt.Errorf("card %d: invalid initial_balance %q: %w", rec.ID, initial, err)
	}
	if rec.RemainingBalance, err = decimal.NewFromString(remaining); err != nil {
		return rec, fmt.Errorf("card %d: invalid remaining_balance %q: %w", rec.ID, remaining, err)
	}

	return rec, nil
}
