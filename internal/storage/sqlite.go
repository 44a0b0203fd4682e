package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps each resource kind in a document table
// (id, owner_id, doc) so the generic row contract maps onto SQL without a
// schema per kind. Batch inserts and deletes run inside one transaction,
// which is where the per-kind atomicity the orchestrators rely on comes
// from.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating directories as needed) and migrates the
// database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Query returns the rows matching filter. The owner scope is pushed down to
// SQL; any remaining filter fields are applied on the decoded documents.
func (s *SQLiteStore) Query(ctx context.Context, table string, filter Filter) ([]Row, error) {
	if !KnownTable(table) {
		return nil, ErrUnknownTable
	}

	query := fmt.Sprintf(`SELECT doc FROM %s`, table) //nolint:gosec // table is whitelisted above
	var args []any
	rest := make(Filter, len(filter))
	for k, v := range filter {
		if k == FieldOwnerID {
			query += ` WHERE owner_id = ?`
			args = append(args, fmt.Sprint(v))
			continue
		}
		rest[k] = v
	}
	query += ` ORDER BY rowid`

	dbRows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer dbRows.Close()

	var out []Row
	for dbRows.Next() {
		var doc string
		if err := dbRows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		var row Row
		if err := json.Unmarshal([]byte(doc), &row); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", table, err)
		}
		if matchesFilter(row, rest) {
			out = append(out, row)
		}
	}
	return out, dbRows.Err()
}

// InsertBatch writes all rows in one transaction, assigning ids where
// absent. A failed row rolls back the whole batch.
func (s *SQLiteStore) InsertBatch(ctx context.Context, table string, rows []Row) ([]Row, error) {
	if !KnownTable(table) {
		return nil, ErrUnknownTable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	stmt := fmt.Sprintf(`INSERT INTO %s (id, owner_id, doc) VALUES (?, ?, ?)`, table) //nolint:gosec
	created := make([]Row, 0, len(rows))
	for _, row := range rows {
		stored := cloneRow(row)
		id, _ := stored[FieldID].(string)
		if id == "" {
			id = uuid.NewString()
			stored[FieldID] = id
		}
		owner, _ := stored[FieldOwnerID].(string)

		doc, err := json.Marshal(stored)
		if err != nil {
			return nil, fmt.Errorf("encode %s document: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, stmt, id, owner, string(doc)); err != nil {
			return nil, fmt.Errorf("insert into %s: %w", table, err)
		}
		created = append(created, stored)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert batch: %w", err)
	}
	return created, nil
}

// UpdateBatch merges patch into every matching row, rewriting the stored
// documents in one transaction.
func (s *SQLiteStore) UpdateBatch(ctx context.Context, table string, filter Filter, patch Row) error {
	if !KnownTable(table) {
		return ErrUnknownTable
	}

	matching, err := s.Query(ctx, table, filter)
	if err != nil {
		return err
	}
	if len(matching) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := fmt.Sprintf(`UPDATE %s SET doc = ? WHERE id = ?`, table) //nolint:gosec
	for _, row := range matching {
		for k, v := range patch {
			row[k] = v
		}
		doc, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode %s document: %w", table, err)
		}
		id, _ := row[FieldID].(string)
		if _, err := tx.ExecContext(ctx, stmt, string(doc), id); err != nil {
			return fmt.Errorf("update %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// DeleteBatch removes every matching row in one transaction. A pure owner
// filter is pushed down to a single DELETE.
func (s *SQLiteStore) DeleteBatch(ctx context.Context, table string, filter Filter) error {
	if !KnownTable(table) {
		return ErrUnknownTable
	}

	if owner, ok := filter[FieldOwnerID]; ok && len(filter) == 1 {
		stmt := fmt.Sprintf(`DELETE FROM %s WHERE owner_id = ?`, table) //nolint:gosec
		if _, err := s.db.ExecContext(ctx, stmt, fmt.Sprint(owner)); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
		return nil
	}

	matching, err := s.Query(ctx, table, filter)
	if err != nil {
		return err
	}
	if len(matching) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table) //nolint:gosec
	for _, row := range matching {
		id, _ := row[FieldID].(string)
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return tx.Commit()
}
