package repository

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/okian/bounty/pkg/logger"
)

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open builds the store selected by driver.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	o := newOptions(opts)

	var dialector gorm.Dialector
	switch driver {
	case DriverMemory:
		o.log.Info(ctx, "using in-memory store")
		return NewMemoryStore(), nil
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, o.gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if driver == DriverSQLite {
		// An in-memory sqlite database lives on a single connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", driver, err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s, err := NewGormStore(ctx, db)
	if err != nil {
		return nil, err
	}
	o.log.Info(ctx, "store opened", logger.String("driver", driver))
	return s, nil
}
