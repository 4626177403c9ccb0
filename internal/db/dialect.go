package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/russross/meddler"
)

// Dialect captures the SQL differences between the supported backends.
type Dialect struct {
	name string
}

var (
	SQLite   = Dialect{name: "sqlite3"}
	Postgres = Dialect{name: "postgres"}
)

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.name:
		return SQLite, nil
	case Postgres.name:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Name returns the database/sql driver name, also used by sql-migrate.
func (d Dialect) Name() string {
	return d.name
}

// Meddler returns the meddler database flavor for the dialect.
func (d Dialect) Meddler() *meddler.Database {
	if d == Postgres {
		return meddler.PostgreSQL
	}
	return meddler.SQLite
}

// Rebind rewrites '?' placeholders into the dialect's placeholder style.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8) //nolint:mnd
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

// ForUpdate returns the row locking suffix for SELECT statements.
// SQLite has no row locks, its transactions are opened IMMEDIATE and hold the
// database write lock instead.
func (d Dialect) ForUpdate() string {
	if d == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// Greatest returns the scalar max function of the dialect.
func (d Dialect) Greatest() string {
	if d == Postgres {
		return "GREATEST"
	}
	return "MAX"
}
