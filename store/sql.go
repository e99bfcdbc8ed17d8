package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"runtime"

	"github.com/mevdschee/systime/config"
)

// SQLStore implements Store on database/sql with the lib/pq driver
type SQLStore struct {
	db    *sql.DB
	table string
}

// OpenSQL opens a lib/pq connection and pings the server
func OpenSQL(ctx context.Context, cfg config.Postgresql) (*SQLStore, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, &ConnectionError{Addr: cfg.Address(), Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectionError{Addr: cfg.Address(), Err: err}
	}
	log.Printf("[Store] Connected to %s (pq)", cfg.Address())
	return NewSQLStore(db, cfg.Table), nil
}

// NewSQLStore wraps an existing *sql.DB
func NewSQLStore(db *sql.DB, table string) *SQLStore {
	return &SQLStore{db: db, table: table}
}

// annotate prepends the file and line of the Store method's caller so
// statements can be traced in pg_stat_activity
func annotate(query string) string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	} else {
		file = filepath.Base(file)
	}
	return fmt.Sprintf("/* file:%s line:%d */ %s", file, line, query)
}

// Insert writes row and scans the RETURNING clause back into a Row
func (s *SQLStore) Insert(ctx context.Context, row Row) (Row, error) {
	var out Row
	err := s.db.QueryRowContext(ctx, annotate(insertSQL(s.table)), row.Memo, row.ImportTS, row.ImportTZ).
		Scan(&out.Memo, &out.ImportTS, &out.ImportTZ)
	if err != nil {
		return Row{}, fmt.Errorf("insert into %s: %w", s.table, err)
	}
	return out, nil
}

// List returns every row of the table
func (s *SQLStore) List(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, annotate(selectSQL(s.table)))
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", s.table, err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Memo, &r.ImportTS, &r.ImportTZ); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// CreateTable creates the demo table
func (s *SQLStore) CreateTable(ctx context.Context, drop bool) error {
	if drop {
		if _, err := s.db.ExecContext(ctx, annotate(dropTableSQL(s.table))); err != nil {
			return fmt.Errorf("drop %s: %w", s.table, err)
		}
		log.Printf("[Store] Dropped table %s", s.table)
	}
	if _, err := s.db.ExecContext(ctx, annotate(createTableSQL(s.table))); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	log.Printf("[Store] Table %s ready", s.table)
	return nil
}

// Close closes the underlying connection pool
func (s *SQLStore) Close() error {
	return s.db.Close()
}
