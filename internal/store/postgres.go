package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS foods (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		unit TEXT NOT NULL DEFAULT 'serving',
		calories DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		id BIGSERIAL PRIMARY KEY,
		food_id BIGINT NOT NULL REFERENCES foods(id) ON DELETE CASCADE,
		servings DOUBLE PRECISION NOT NULL,
		eaten_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_eaten_at ON entries(eaten_at)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id BIGSERIAL PRIMARY KEY,
		namespace TEXT NOT NULL,
		name TEXT NOT NULL,
		UNIQUE(namespace, name)
	)`,
	`CREATE TABLE IF NOT EXISTS entry_tags (
		entry_id BIGINT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
		tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (entry_id, tag_id)
	)`,
}

func openPostgres(ctx context.Context, p Params) (*sql.DB, error) {
	// Build connection string safely with url.URL
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   "/" + p.Database,
	}

	connConfig, err := pgx.ParseConfig(u.String())
	if err != nil {
		return nil, WrapConnectionError(err)
	}

	// Register the driver configuration with stdlib
	db, err := sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
	if err != nil {
		return nil, WrapConnectionError(err)
	}

	// Configure connection pooling
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, WrapConnectionError(err)
	}
	return db, nil
}
