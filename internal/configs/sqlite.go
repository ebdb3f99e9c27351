package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns the lifetime of the sqlite connection pool. Repositories get
// the handle through DB and never close it themselves; every statement checks
// out its own pooled connection, so goroutines never share one mid-query.
type Database struct {
	db *gorm.DB
}

func OpenDatabase(dsn string, maxOpenConns int) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(withPragmas(dsn)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("db open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	if isMemoryDSN(dsn) {
		// every sqlite connection to :memory: opens its own empty database,
		// and it vanishes once its last connection closes
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxIdleTime(0)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		if maxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(maxOpenConns)
			sqlDB.SetMaxIdleConns(maxOpenConns)
		}
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	return &Database{db: db}, nil
}

func (d *Database) DB() *gorm.DB {
	return d.db
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// withPragmas turns on WAL and a busy timeout so concurrent writers wait for
// the file lock instead of failing with SQLITE_BUSY.
func withPragmas(dsn string) string {
	if isMemoryDSN(dsn) || strings.Contains(dsn, "_journal_mode") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
