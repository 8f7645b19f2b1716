package universe

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"RSIRelative/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteSource reads the universe from a SQLite table:
//
//	CREATE TABLE universe (symbol TEXT NOT NULL, index_label TEXT)
//
// Rows are returned in rowid order.
type SQLiteSource struct {
	Path  string
	Table string
}

// NewSQLiteSource creates a source reading table "universe" from dbPath.
func NewSQLiteSource(dbPath string) *SQLiteSource {
	return &SQLiteSource{Path: dbPath, Table: "universe"}
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.Path }

func (s *SQLiteSource) Load(ctx context.Context) ([]model.Equity, error) {
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if err := s.checkColumns(ctx, db); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		`SELECT symbol, COALESCE(index_label, '') FROM %q ORDER BY rowid`, s.Table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	var out []model.Equity
	for rows.Next() {
		var sym, idx string
		if err := rows.Scan(&sym, &idx); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Table, err)
		}
		sym = strings.TrimSpace(sym)
		if sym == "" {
			log.Printf("[WARN] %s row without symbol, skipped", s.Table)
			continue
		}
		out = append(out, model.Equity{Symbol: strings.ToUpper(sym), Index: strings.TrimSpace(idx)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.Table, err)
	}
	log.Printf("[INFO] loaded %d rows from %s", len(out), s.Name())
	return out, nil
}

// checkColumns reports a missing table or column as ErrMissingColumn.
func (s *SQLiteSource) checkColumns(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, s.Table))
	if err != nil {
		return fmt.Errorf("inspect %s: %w", s.Table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("inspect %s: %w", s.Table, err)
		}
		cols[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect %s: %w", s.Table, err)
	}
	for _, c := range []string{"symbol", "index_label"} {
		if !cols[c] {
			return fmt.Errorf("%w: %s.%s", ErrMissingColumn, s.Table, c)
		}
	}
	return nil
}
