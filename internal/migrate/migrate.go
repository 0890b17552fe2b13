// Package migrate brings the rooms/photos/reactions schema up to date at
// server start, from SQL files embedded in the binary.
package migrate

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/anlupatov/snaproom/migrations"
)

// Up applies all pending migrations. Safe to run on every start; goose
// tracks the applied version in the database.
func Up(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}
