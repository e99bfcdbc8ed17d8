package store

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mevdschee/systime/config"
)

// gormRow is the GORM model of the demo table
type gormRow struct {
	Memo     string    `gorm:"type:varchar"`
	ImportTs time.Time `gorm:"type:timestamp;default:now()"`
	ImportTz time.Time `gorm:"type:timestamp with time zone;default:now()"`
}

func toGormRow(r Row) gormRow {
	return gormRow{
		Memo:     r.Memo,
		ImportTs: r.ImportTS.Time(),
		ImportTz: r.ImportTZ.Time(),
	}
}

func fromGormRow(g gormRow) (Row, error) {
	r := Row{Memo: g.Memo}
	if err := r.ImportTS.Scan(g.ImportTs); err != nil {
		return Row{}, err
	}
	if err := r.ImportTZ.Scan(g.ImportTz); err != nil {
		return Row{}, err
	}
	return r, nil
}

// GormStore implements Store on GORM with the pgx based postgres dialector
type GormStore struct {
	db    *gorm.DB
	table string
}

// OpenGorm opens a GORM connection and pings the server
func OpenGorm(ctx context.Context, cfg config.Postgresql) (*GormStore, error) {
	return openGorm(ctx, postgres.Open(cfg.ConnString()), cfg)
}

func openGorm(ctx context.Context, dialector gorm.Dialector, cfg config.Postgresql) (*GormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, &ConnectionError{Addr: cfg.Address(), Err: err}
	}

	sqlDB, err := db.DB()
	if err != nil {
		closeGorm(db)
		return nil, &ConnectionError{Addr: cfg.Address(), Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		closeGorm(db)
		return nil, &ConnectionError{Addr: cfg.Address(), Err: err}
	}
	log.Printf("[Store] Connected to %s (gorm)", cfg.Address())
	return NewGormStore(db, cfg.Table), nil
}

// closeGorm releases the connection pool behind db, including pools that are
// not a *sql.DB
func closeGorm(db *gorm.DB) error {
	if sqlDB, err := db.DB(); err == nil {
		return sqlDB.Close()
	}
	if c, ok := db.ConnPool.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewGormStore wraps an existing *gorm.DB
func NewGormStore(db *gorm.DB, table string) *GormStore {
	return &GormStore{db: db, table: table}
}

// Insert writes row and reads the stored values back with RETURNING
func (s *GormStore) Insert(ctx context.Context, row Row) (Row, error) {
	g := toGormRow(row)
	if err := s.db.WithContext(ctx).Table(s.table).Clauses(clause.Returning{}).Create(&g).Error; err != nil {
		return Row{}, fmt.Errorf("insert into %s: %w", s.table, err)
	}
	return fromGormRow(g)
}

// List returns every row of the table
func (s *GormStore) List(ctx context.Context) ([]Row, error) {
	var found []gormRow
	if err := s.db.WithContext(ctx).Table(s.table).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("select from %s: %w", s.table, err)
	}

	result := make([]Row, 0, len(found))
	for _, g := range found {
		r, err := fromGormRow(g)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		result = append(result, r)
	}
	return result, nil
}

// CreateTable migrates the demo table
func (s *GormStore) CreateTable(ctx context.Context, drop bool) error {
	db := s.db.WithContext(ctx)
	if drop {
		if err := db.Migrator().DropTable(s.table); err != nil {
			return fmt.Errorf("drop %s: %w", s.table, err)
		}
		log.Printf("[Store] Dropped table %s", s.table)
	}
	if err := db.Table(s.table).AutoMigrate(&gormRow{}); err != nil {
		return fmt.Errorf("migrate %s: %w", s.table, err)
	}
	log.Printf("[Store] Table %s ready", s.table)
	return nil
}

// Close closes the underlying connection pool
func (s *GormStore) Close() error {
	return closeGorm(s.db)
}

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*GormStore)(nil)
)
