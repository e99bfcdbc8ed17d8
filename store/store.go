// Package store persists demo rows in PostgreSQL.
//
// A Row carries the same source datetime twice: import_ts is a timestamp
// without time zone and holds a timestamp.Instant, import_tz is a timestamp
// with time zone and holds a timestamp.OffsetDatetime. Values are converted
// before they are written and after they are read, so a row read back equals
// the row that was written (offsets come back collapsed to UTC).
//
// Two backends share the Store interface:
//
//	s, err := store.Open(ctx, cfg) // postgresql.driver = "pq" or "gorm"
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	inserted, err := s.Insert(ctx, store.Row{Memo: "Theo is cute", ...})
//	rows, err := s.List(ctx)
package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/mevdschee/systime/config"
	"github.com/mevdschee/systime/timestamp"
)

// Row is one record of the demo table
type Row struct {
	Memo     string
	ImportTS timestamp.Instant
	ImportTZ timestamp.OffsetDatetime
}

// Store reads and writes demo rows
type Store interface {
	// Insert writes a row and returns it as stored
	Insert(ctx context.Context, row Row) (Row, error)
	// List returns every row of the table
	List(ctx context.Context) ([]Row, error)
	// CreateTable creates the demo table, dropping an existing one first if drop is set
	CreateTable(ctx context.Context, drop bool) error
	Close() error
}

// Open connects to the configured backend and verifies the connection
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Postgresql.Driver {
	case config.DriverGorm:
		return OpenGorm(ctx, cfg.Postgresql)
	case config.DriverPQ, "":
		return OpenSQL(ctx, cfg.Postgresql)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Postgresql.Driver)
	}
}

func createTableSQL(table string) string {
	return "CREATE TABLE IF NOT EXISTS " + pq.QuoteIdentifier(table) + ` (
	memo varchar,
	import_ts timestamp default now(),
	import_tz timestamp with time zone default now()
)`
}

func dropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table)
}

func insertSQL(table string) string {
	return "INSERT INTO " + pq.QuoteIdentifier(table) + ` (memo, import_ts, import_tz)
	VALUES ($1, $2, $3)
	RETURNING memo, import_ts, import_tz`
}

func selectSQL(table string) string {
	return "SELECT memo, import_ts, import_tz FROM " + pq.QuoteIdentifier(table)
}
