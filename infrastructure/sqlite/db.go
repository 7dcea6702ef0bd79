package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

const (
	maxReadConns    = 8
	connMaxLifetime = 15 * time.Minute
	connMaxIdleTime = 5 * time.Minute
)

// DB wraps split read/write Bun connections over one sqlite file.
//
// Writes funnel through a single connection with immediate transactions so the
// trade API never sees SQLITE_BUSY between concurrent mutations.
type DB struct {
	WriteSQL *sql.DB
	ReadSQL  *sql.DB
	W        *bun.DB
	R        *bun.DB
}

// OpenDB opens the trade store at path.
func OpenDB(path string) (*DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	wsql, err := sql.Open("sqlite3", dsn(path, "_txlock=immediate"))
	if err != nil {
		return nil, fmt.Errorf("open write db: %w", err)
	}
	wsql.SetMaxOpenConns(1)
	wsql.SetConnMaxLifetime(connMaxLifetime)

	rsql, err := openReader(path)
	if err != nil {
		wsql.Close()
		return nil, err
	}

	return &DB{
		WriteSQL: wsql,
		ReadSQL:  rsql,
		W:        bun.NewDB(wsql, sqlitedialect.New()),
		R:        bun.NewDB(rsql, sqlitedialect.New()),
	}, nil
}

func openReader(path string) (*sql.DB, error) {
	rsql, err := sql.Open("sqlite3", dsn(path, "mode=ro", "_query_only=1"))
	if err != nil {
		return nil, fmt.Errorf("open read db: %w", err)
	}

	// A new or missing file cannot be opened read-only; reopen without mode=ro so bootstrap works.
	if err := rsql.Ping(); err != nil && strings.Contains(err.Error(), "unable to open database file") {
		rsql.Close()
		rsql, err = sql.Open("sqlite3", dsn(path, "_query_only=1"))
		if err != nil {
			return nil, fmt.Errorf("open fallback read db: %w", err)
		}
	}
	rsql.SetMaxOpenConns(maxReadConns)
	rsql.SetConnMaxIdleTime(connMaxIdleTime)
	rsql.SetConnMaxLifetime(connMaxLifetime)

	if _, err := rsql.Exec("PRAGMA query_only = ON"); err != nil {
		rsql.Close()
		return nil, fmt.Errorf("enable read query_only: %w", err)
	}
	return rsql, nil
}

func dsn(path string, params ...string) string {
	all := append([]string{"_foreign_keys=on", "_busy_timeout=5000"}, params...)
	return fmt.Sprintf("file:%s?%s", path, strings.Join(all, "&"))
}

// Close closes read and write handles and reports the first failure.
func (db *DB) Close() error {
	if db == nil {
		return nil
	}
	var first error
	for _, h := range []*bun.DB{db.W, db.R} {
		if h == nil {
			continue
		}
		if err := h.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
