package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goran-ethernal/BlockPipe/pkg/config"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open opens the database selected by cfg.Driver and returns it with its dialect.
func Open(cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}

	var database *sql.DB
	switch dialect {
	case Postgres:
		database, err = NewPostgresDB(cfg)
	default:
		database, err = NewSQLiteDBFromConfig(cfg)
	}
	if err != nil {
		return nil, Dialect{}, err
	}

	return database, dialect, nil
}

// sqliteDSN builds the go-sqlite3 connection string.
// _txlock=immediate makes every transaction take the write lock on BEGIN, which is
// what serialises concurrent writers competing for the same task row.
func sqliteDSN(cfg config.DatabaseConfig) string {
	foreignKeys := "off"
	if cfg.EnableForeignKeys {
		foreignKeys = "on"
	}

	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Set("_foreign_keys", foreignKeys)
	params.Set("_journal_mode", cfg.JournalMode)
	params.Set("_busy_timeout", strconv.Itoa(cfg.BusyTimeout))

	return "file:" + cfg.Path + "?" + params.Encode()
}

// NewSQLiteDBFromConfig opens a SQLite database and applies the configured pragmas.
func NewSQLiteDBFromConfig(cfg config.DatabaseConfig) (*sql.DB, error) {
	database, err := sql.Open("sqlite3", sqliteDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	configurePool(database, cfg)

	for _, pragma := range []string{
		"PRAGMA synchronous = " + cfg.Synchronous,
		"PRAGMA cache_size = " + strconv.Itoa(cfg.CacheSize),
	} {
		if _, err := database.Exec(pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return database, nil
}

// NewPostgresDB opens a Postgres connection pool and verifies it is reachable.
func NewPostgresDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	database, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	configurePool(database, cfg)

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	return database, nil
}

func configurePool(database *sql.DB, cfg config.DatabaseConfig) {
	database.SetMaxOpenConns(cfg.MaxOpenConnections)
	database.SetMaxIdleConns(cfg.MaxIdleConnections)
}
