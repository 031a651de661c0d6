// Package sqlstore provides a store.Store over database/sql.
//
// The store issues plain parameterized SELECT statements against tables
// registered at construction time, one per entity type. It renders
// placeholders and identifier quoting per dialect (postgres, mysql,
// sqlite) but generates no schema and runs no migrations.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/relgraph/relgraph/store"
)

// Table maps an entity type to its table and primary-key column.
type Table struct {
	Name string // Table name, also the entity type name.
	ID   string // Primary-key column.
}

// Store is a database/sql-backed implementation of store.Store.
type Store struct {
	db      *sql.DB
	dialect string
	tables  map[string]Table
}

// New wraps an existing *sql.DB. Table and column names are validated as
// SQL identifiers once here so query rendering never interpolates an
// unchecked string.
func New(dialect string, db *sql.DB, tables ...Table) (*Store, error) {
	if !supportedDialect(dialect) {
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", dialect)
	}
	s := &Store{db: db, dialect: dialect, tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		if !isValidIdentifier(t.Name) || !isValidIdentifier(t.ID) {
			return nil, fmt.Errorf("sqlstore: invalid table registration %q (%q)", t.Name, t.ID)
		}
		s.tables[t.Name] = t
	}
	return s, nil
}

// Open opens a database/sql connection for the dialect and wraps it.
func Open(dialect, dsn string, tables ...Table) (*Store, error) {
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", dialect, err)
	}
	s, err := New(dialect, db, tables...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the base dialect name.
func (s *Store) Dialect() string { return baseDialect(s.dialect) }

// Close closes the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// Get implements store.Store.
func (s *Store) Get(ctx context.Context, table string, id any) (store.Row, error) {
	t, err := s.table("get", table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
		quote(s.dialect, t.Name), quote(s.dialect, t.ID), placeholder(s.dialect, 1))
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, store.NewUnavailableError("get", table, err)
	}
	out, err := scanRows(rows)
	if err != nil {
		return nil, store.NewUnavailableError("get", table, err)
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return out[0], nil
}

// ListByFK implements store.Store.
func (s *Store) ListByFK(ctx context.Context, table, fkField string, value any) ([]store.Row, error) {
	t, err := s.table("list-fk", table)
	if err != nil {
		return nil, err
	}
	if !isValidIdentifier(fkField) {
		return nil, store.NewUnavailableError("list-fk", table, fmt.Errorf("invalid column name %q", fkField))
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = %s ORDER BY %s ASC",
		quote(s.dialect, t.Name), quote(s.dialect, fkField),
		placeholder(s.dialect, 1), quote(s.dialect, t.ID))
	rows, err := s.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, store.NewUnavailableError("list-fk", table, err)
	}
	out, err := scanRows(rows)
	if err != nil {
		return nil, store.NewUnavailableError("list-fk", table, err)
	}
	return out, nil
}

// List implements store.Store.
func (s *Store) List(ctx context.Context, table string, sel *store.Selector) ([]store.Row, error) {
	t, err := s.table("list", table)
	if err != nil {
		return nil, err
	}
	query, args, err := s.render(t, sel)
	if err != nil {
		return nil, store.NewUnavailableError("list", table, err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewUnavailableError("list", table, err)
	}
	out, err := scanRows(rows)
	if err != nil {
		return nil, store.NewUnavailableError("list", table, err)
	}
	return out, nil
}

// render builds the SELECT statement for a selector listing.
func (s *Store) render(t Table, sel *store.Selector) (string, []any, error) {
	var (
		sb   strings.Builder
		args []any
	)
	fmt.Fprintf(&sb, "SELECT * FROM %s", quote(s.dialect, t.Name))
	if sel != nil {
		conds := sel.Conds()
		for i, c := range conds {
			if !isValidIdentifier(c.Field) {
				return "", nil, fmt.Errorf("invalid column name %q", c.Field)
			}
			if i == 0 {
				sb.WriteString(" WHERE ")
			} else {
				sb.WriteString(" AND ")
			}
			if c.Op == store.OpIn {
				phs := make([]string, len(c.Values))
				for j, v := range c.Values {
					args = append(args, v)
					phs[j] = placeholder(s.dialect, len(args))
				}
				fmt.Fprintf(&sb, "%s IN (%s)", quote(s.dialect, c.Field), strings.Join(phs, ", "))
				continue
			}
			args = append(args, c.Value)
			fmt.Fprintf(&sb, "%s %s %s", quote(s.dialect, c.Field), c.Op, placeholder(s.dialect, len(args)))
		}
	}
	sb.WriteString(" ORDER BY ")
	if sel != nil {
		for _, f := range sel.Order() {
			if !isValidIdentifier(f) {
				return "", nil, fmt.Errorf("invalid column name %q", f)
			}
			fmt.Fprintf(&sb, "%s ASC, ", quote(s.dialect, f))
		}
	}
	fmt.Fprintf(&sb, "%s ASC", quote(s.dialect, t.ID))
	if sel != nil && sel.LimitValue() > 0 {
		sb.WriteString(" LIMIT " + strconv.Itoa(sel.LimitValue()))
	}
	return sb.String(), args, nil
}

func (s *Store) table(op, name string) (Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return Table{}, store.NewUnavailableError(op, name, fmt.Errorf("table not registered"))
	}
	return t, nil
}

// scanRows drains the result set into generic rows, closing it afterwards.
// Byte slices are copied to strings: drivers reuse their buffers between
// Next calls.
func scanRows(rows *sql.Rows) ([]store.Row, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []store.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(store.Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ store.Store = (*Store)(nil)
