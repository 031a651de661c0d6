// Package store defines the row-oriented backing store boundary used by the
// relationship loader. A Store hides the physical storage (relational
// database, in-memory table, remote service) behind three read operations:
// point lookup by primary key, lookup by foreign-key equality, and a
// predicate-filtered listing for root fetches.
//
// Implementations must order multi-row results by primary key ascending so
// that collection-valued relations observe a deterministic order regardless
// of the loading strategy in use.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Row is a single stored record, mapping column names to scalar values.
type Row map[string]any

// Standard sentinel errors for store operations.
var (
	// ErrNotFound is returned by Get when no row carries the requested
	// primary key. It is a valid result, not an I/O failure: callers encode
	// it as a resolved-absent relation.
	ErrNotFound = errors.New("store: row not found")

	// ErrUnavailable is returned (usually wrapped in an UnavailableError)
	// when the backing store cannot serve a read. It is never retried here.
	ErrUnavailable = errors.New("store: unavailable")
)

// UnavailableError wraps an I/O failure from the backing store with the
// operation and table it occurred on.
type UnavailableError struct {
	Op    string // Operation ("get", "list", "list-fk")
	Table string // Table being read
	Err   error  // Underlying driver error
}

// Error returns the error string.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Table, e.Err)
}

// Is reports whether the target error matches ErrUnavailable.
func (e *UnavailableError) Is(err error) bool {
	return err == ErrUnavailable
}

// Unwrap returns the underlying error.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// NewUnavailableError returns a new UnavailableError for the given operation.
func NewUnavailableError(op, table string, err error) *UnavailableError {
	return &UnavailableError{Op: op, Table: table, Err: err}
}

// IsUnavailable returns true if the error indicates a store I/O failure.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var e *UnavailableError
	return errors.As(err, &e) || errors.Is(err, ErrUnavailable)
}

// IsNotFound returns true if the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Op is a comparison operator used in predicate conditions.
type Op string

// Supported condition operators.
const (
	OpEQ  Op = "="
	OpNEQ Op = "!="
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpLT  Op = "<"
	OpLTE Op = "<="
	OpIn  Op = "IN"
)

// Cond is a single field condition. For OpIn, Values holds the candidate
// set and Value is ignored.
type Cond struct {
	Field  string
	Op     Op
	Value  any
	Values []any
}

// Selector carries the predicate conditions, ordering and limit of a root
// fetch. It is populated through Predicate closures and consumed by Store
// implementations. The zero Selector selects everything, ordered by
// primary key ascending.
type Selector struct {
	conds []Cond
	order []string
	limit int
}

// NewSelector returns an empty Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Where appends a condition to the selector.
func (s *Selector) Where(c Cond) *Selector {
	s.conds = append(s.conds, c)
	return s
}

// OrderBy sets the ordering fields. Implementations append the primary key
// as the final tiebreaker.
func (s *Selector) OrderBy(fields ...string) *Selector {
	s.order = append(s.order[:0], fields...)
	return s
}

// Limit caps the number of returned rows. Zero means no limit.
func (s *Selector) Limit(n int) *Selector {
	s.limit = n
	return s
}

// Conds returns the accumulated conditions.
func (s *Selector) Conds() []Cond { return s.conds }

// Order returns the explicit ordering fields, if any.
func (s *Selector) Order() []string { return s.order }

// LimitValue returns the row limit, zero when unset.
func (s *Selector) LimitValue() int { return s.limit }

// Predicate is a function that configures a Selector. Typed predicate
// builders live in the query package.
type Predicate func(*Selector)

// Store is the read contract over a row-oriented backing store.
//
// Get returns ErrNotFound when the id has no row; that is a valid result.
// ListByFK and List return rows ordered by primary key ascending and an
// empty slice (not an error) when nothing matches. Any other failure is
// reported as an UnavailableError.
type Store interface {
	// Get performs a point lookup by primary key.
	Get(ctx context.Context, table string, id any) (Row, error)

	// ListByFK returns every row whose fkField equals value.
	ListByFK(ctx context.Context, table, fkField string, value any) ([]Row, error)

	// List returns the rows matching the selector.
	List(ctx context.Context, table string, sel *Selector) ([]Row, error)
}
