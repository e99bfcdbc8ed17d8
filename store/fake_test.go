package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// fakeDB implements a minimal in-memory sql/driver emulating the demo table.
// timestamp values lose their offset and timestamptz values come back in the
// session zone, as PostgreSQL does.
type fakeDB struct {
	mu      sync.Mutex
	session *time.Location
	rows    [][]driver.Value
	queries []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{session: time.FixedZone("", 3600)}
}

func (f *fakeDB) Connect(ctx context.Context) (driver.Conn, error) { return &fakeConn{db: f}, nil }
func (f *fakeDB) Driver() driver.Driver                            { return fakeDriver{db: f} }

func (f *fakeDB) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

type fakeDriver struct {
	db *fakeDB
}

func (d fakeDriver) Open(name string) (driver.Conn, error) { return &fakeConn{db: d.db}, nil }

type fakeConn struct {
	db *fakeDB
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("fake: prepared statements not supported")
}
func (c *fakeConn) Close() error              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

// statement strips a leading /* ... */ hint and lowercases the first keyword
func statement(query string) string {
	q := strings.TrimSpace(query)
	if strings.HasPrefix(q, "/*") {
		if end := strings.Index(q, "*/"); end >= 0 {
			q = strings.TrimSpace(q[end+2:])
		}
	}
	return strings.ToLower(q)
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	c.db.queries = append(c.db.queries, query)

	q := statement(query)
	switch {
	case strings.HasPrefix(q, "drop table"):
		c.db.rows = nil
	case strings.HasPrefix(q, "create table"):
	default:
		return nil, errors.New("fake: unsupported exec: " + query)
	}
	return driver.RowsAffected(0), nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	c.db.queries = append(c.db.queries, query)

	q := statement(query)
	switch {
	case strings.HasPrefix(q, "insert"):
		if len(args) != 3 {
			return nil, errors.New("fake: insert expects 3 arguments")
		}
		memo, ok := args[0].Value.(string)
		if !ok {
			return nil, errors.New("fake: memo must be a string")
		}
		ts, ok := args[1].Value.(time.Time)
		if !ok {
			return nil, errors.New("fake: import_ts must be a time")
		}
		tz, ok := args[2].Value.(time.Time)
		if !ok {
			return nil, errors.New("fake: import_tz must be a time")
		}
		row := []driver.Value{
			memo,
			time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.FixedZone("", 0)),
			tz.In(c.db.session),
		}
		c.db.rows = append(c.db.rows, row)
		return &fakeRows{rows: [][]driver.Value{row}}, nil

	case strings.HasPrefix(q, "select"):
		rows := make([][]driver.Value, len(c.db.rows))
		copy(rows, c.db.rows)
		return &fakeRows{rows: rows}, nil
	}
	return nil, errors.New("fake: unsupported query: " + query)
}

type fakeRows struct {
	rows [][]driver.Value
	pos  int
}

func (r *fakeRows) Columns() []string { return []string{"memo", "import_ts", "import_tz"} }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
