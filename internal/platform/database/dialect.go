package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"
)

// Dialect identifies the SQL flavor spoken by a connection.
type Dialect string

// Supported dialects. The values match config.DatabaseConfig.Driver.
const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a configured driver name onto a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(name)) {
	case Postgres:
		return Postgres, nil
	case SQLite:
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// gooseDialect is the goose dialect used to track applied migrations.
func (d Dialect) gooseDialect() goose.Dialect {
	if d == Postgres {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}

// Rebind rewrites the ? placeholders of query into the dialect's native
// form. Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
