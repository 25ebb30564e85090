// Package database holds the schema migrations shared by every SQL backend.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	// DialectPostgres is the goose dialect for PostgreSQL.
	DialectPostgres = "postgres"
	// DialectSQLite is the goose dialect for SQLite.
	DialectSQLite = "sqlite3"
)

// Migrate applies pending migrations to the PostgreSQL database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	return MigrateDB(ctx, db, DialectPostgres)
}

// MigrateDB applies pending migrations to db using the given goose dialect.
func MigrateDB(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
