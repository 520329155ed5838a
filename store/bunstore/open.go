package bunstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

// Open connects to dsn with the named driver and wraps the pool in a bun.DB
// with the matching dialect. SQLite pools are limited to one connection.
func Open(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres, DriverPgx:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// CreateSchema creates the catalog table and its public id index when they do
// not exist. It is meant for tests and local development; production schemas
// are managed outside this package.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*itemRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	_, err = db.NewCreateIndex().
		Model((*itemRow)(nil)).
		Unique().
		IfNotExists().
		Index(publicIDIndex).
		Column("public_id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create index %s: %w", publicIDIndex, err)
	}
	return nil
}
