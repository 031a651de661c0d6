package sqlstore

import (
	"fmt"
	"regexp"
	"strings"
)

// Supported SQL dialects. The dialect name doubles as the database/sql
// driver name for Open.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores,
// dots for schema.name).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// supportedDialect reports whether the dialect is one this store knows how
// to render placeholders and quoting for.
func supportedDialect(d string) bool {
	switch d {
	case Postgres, MySQL, SQLite:
		return true
	}
	// Wrapped driver names like "sqlite3" still resolve to a base dialect.
	return strings.HasPrefix(d, Postgres) || strings.HasPrefix(d, MySQL) || strings.HasPrefix(d, SQLite)
}

// baseDialect strips telemetry or versioned driver suffixes.
func baseDialect(d string) string {
	for _, name := range []string{Postgres, MySQL, SQLite} {
		if strings.HasPrefix(d, name) {
			return name
		}
	}
	return d
}

// placeholder renders the n-th (1-based) bind placeholder for the dialect.
func placeholder(dialect string, n int) string {
	if baseDialect(dialect) == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// quote renders a quoted identifier for the dialect. The identifier must
// already have passed isValidIdentifier.
func quote(dialect, ident string) string {
	if baseDialect(dialect) == MySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}
