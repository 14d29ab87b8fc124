// Package store persists foods, log entries and tags in SQLite, PostgreSQL
// or MySQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/nhath/foodlog/internal/logging"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// Params holds database connection details
type Params struct {
	Driver   DriverType
	Path     string // sqlite file, or ":memory:"
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Store is a handle on the food log database.
type Store struct {
	db     *sql.DB
	driver DriverType
}

// DefaultPath returns the XDG data path of the SQLite database
func DefaultPath() (string, error) {
	return xdg.DataFile("foodlog/foodlog.db")
}

// Open connects to the database described by p and creates the schema.
func Open(ctx context.Context, p Params) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)
	switch p.Driver {
	case SQLite, "":
		p.Driver = SQLite
		db, err = openSQLite(p)
	case Postgres:
		db, err = openPostgres(ctx, p)
	case MySQL:
		db, err = openMySQL(ctx, p)
	default:
		return nil, fmt.Errorf("unknown driver type: %s", p.Driver)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, driver: p.Driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logging.Info("store opened", "driver", p.Driver)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the backend in use.
func (s *Store) Driver() DriverType {
	return s.driver
}

func (s *Store) migrate(ctx context.Context) error {
	var stmts []string
	switch s.driver {
	case Postgres:
		stmts = postgresSchema
	case MySQL:
		stmts = mysqlSchema
	default:
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return WrapQueryError("migrate", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders into the driver's syntax.
func (s *Store) rebind(query string) string {
	if s.driver != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// insert runs an INSERT and returns the new row id.
func (s *Store) insert(ctx context.Context, query string, args ...any) (int64, error) {
	if s.driver == Postgres {
		var id int64
		err := s.queryRow(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// likePattern builds a case-insensitive substring pattern escaped with '!'.
func likePattern(partial string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(partial)) + "%"
}

// dbTime normalises times so every driver compares them the same way.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
