// Package store handles SQLite persistence of the comparables library.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/verte-zerg/vcval/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a comparable id does not exist.
var ErrNotFound = errors.New("comparable not found")

// Store wraps SQLite access for comparable transactions.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS comparables (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			valuation REAL NOT NULL,
			revenue REAL NOT NULL,
			stage TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_comparables_stage ON comparables(stage);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertComparable stores a comparable and returns its id.
func (s *Store) InsertComparable(ctx context.Context, c model.Comparable) (int64, error) {
	if strings.TrimSpace(c.Name) == "" {
		return 0, fmt.Errorf("comparable name is empty")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO comparables (name, valuation, revenue, stage, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Valuation, c.Revenue, c.Stage, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteComparable removes a comparable by id.
func (s *Store) DeleteComparable(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comparables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// GetComparable fetches one comparable by id.
func (s *Store) GetComparable(ctx context.Context, id int64) (model.Comparable, error) {
	var r comparableRow
	err := s.db.GetContext(ctx, &r,
		`SELECT id, name, valuation, revenue, stage FROM comparables WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comparable{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return model.Comparable{}, err
	}
	return r.comparable(), nil
}

// UpdateComparable rewrites the stored row with c.ID. The creation time is
// kept.
func (s *Store) UpdateComparable(ctx context.Context, c model.Comparable) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("comparable name is empty")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE comparables SET name = ?, valuation = ?, revenue = ?, stage = ? WHERE id = ?`,
		c.Name, c.Valuation, c.Revenue, c.Stage, c.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, c.ID)
	}
	return nil
}

// comparableRow is the scan target for the comparables table.
type comparableRow struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	Valuation float64 `db:"valuation"`
	Revenue   float64 `db:"revenue"`
	Stage     string  `db:"stage"`
}

func (r comparableRow) comparable() model.Comparable {
	return model.Comparable{
		ID:        r.ID,
		Name:      r.Name,
		Valuation: r.Valuation,
		Revenue:   r.Revenue,
		Stage:     r.Stage,
	}
}

// ListComparables returns stored comparables in insertion order. A non-empty
// stage filters case-insensitively on the stage label.
func (s *Store) ListComparables(ctx context.Context, stage string) ([]model.Comparable, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if stage != "" {
		clauses = append(clauses, "lower(stage) = lower(?)")
		args = append(args, stage)
	}
	query := fmt.Sprintf(`SELECT id, name, valuation, revenue, stage
		FROM comparables
		WHERE %s
		ORDER BY id ASC`, strings.Join(clauses, " AND "))
	var rows []comparableRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	var result []model.Comparable
	for _, r := range rows {
		result = append(result, r.comparable())
	}
	return result, nil
}

// ReplaceComparables swaps the whole library for comps in one transaction.
func (s *Store) ReplaceComparables(ctx context.Context, comps []model.Comparable) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM comparables`); err != nil {
		return err
	}
	if err = insertAll(ctx, tx, comps, s.now()); err != nil {
		return err
	}
	return tx.Commit()
}

// SeedDefaults fills an empty library with the starter comparables. It
// returns the number of rows inserted.
func (s *Store) SeedDefaults(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comparables`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	defaults := model.DefaultComparables()
	if err := s.ReplaceComparables(ctx, defaults); err != nil {
		return 0, err
	}
	return len(defaults), nil
}

func insertAll(ctx context.Context, tx *sqlx.Tx, comps []model.Comparable, now time.Time) error {
	if len(comps) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO comparables (name, valuation, revenue, stage, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	created := now.UTC().Format(time.RFC3339Nano)
	for _, c := range comps {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("comparable name is empty")
		}
		if _, err := stmt.ExecContext(ctx, c.Name, c.Valuation, c.Revenue, c.Stage, created); err != nil {
			return err
		}
	}
	return nil
}
