package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS foods (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		unit VARCHAR(64) NOT NULL DEFAULT 'serving',
		calories DOUBLE NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS entries (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		food_id BIGINT NOT NULL,
		servings DOUBLE NOT NULL,
		eaten_at DATETIME NOT NULL,
		INDEX idx_entries_eaten_at (eaten_at),
		FOREIGN KEY (food_id) REFERENCES foods(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		namespace VARCHAR(64) NOT NULL,
		name VARCHAR(191) NOT NULL,
		UNIQUE KEY uq_tags (namespace, name)
	)`,
	`CREATE TABLE IF NOT EXISTS entry_tags (
		entry_id BIGINT NOT NULL,
		tag_id BIGINT NOT NULL,
		PRIMARY KEY (entry_id, tag_id),
		FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE,
		FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
	)`,
}

func openMySQL(ctx context.Context, p Params) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", p.Host, p.Port)
	cfg.DBName = p.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, WrapConnectionError(err)
	}

	// Configure connection pooling
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection immediately (sql.Open is lazy)
	pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, WrapConnectionError(err)
	}
	return db, nil
}
