package relgraph

import (
	"errors"
	"fmt"

	"github.com/relgraph/relgraph/load"
	"github.com/relgraph/relgraph/schema"
	"github.com/relgraph/relgraph/store"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("relgraph: entity not found")

	// ErrNotSingular is returned when a query that expects exactly one
	// result returns zero or multiple results.
	ErrNotSingular = errors.New("relgraph: entity not singular")

	// ErrSessionClosed is returned when resolution is attempted through a
	// session that has been closed. The entity never silently returns
	// stale or nil data instead.
	ErrSessionClosed = errors.New("relgraph: session closed")

	// ErrUnknownRelation mirrors the registry sentinel for undeclared
	// relations.
	ErrUnknownRelation = schema.ErrUnknownRelation

	// ErrInvalidLoadPlan mirrors the load-plan sentinel for plans that
	// cannot be executed.
	ErrInvalidLoadPlan = load.ErrInvalidPlan

	// ErrStoreUnavailable mirrors the store sentinel for backing-store
	// I/O failures. Surfaced to the caller unchanged; never retried.
	ErrStoreUnavailable = store.ErrUnavailable
)

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	label string
	id    any // Optional: the ID that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("relgraph: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("relgraph: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the entity label.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the ID that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given entity type.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the ID that was searched for.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotSingularError represents an error when a query expects a singular
// result but receives zero or multiple results.
type NotSingularError struct {
	label string
	count int // Number of results returned (-1 if unknown)
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("relgraph: %s not singular (got %d results, expected 1)", e.label, e.count)
	}
	return fmt.Sprintf("relgraph: %s not singular", e.label)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Label returns the entity label.
func (e *NotSingularError) Label() string {
	return e.label
}

// Count returns the number of results, or -1 if unknown.
func (e *NotSingularError) Count() int {
	return e.count
}

// NewNotSingularError returns a new NotSingularError for the given entity type.
func NewNotSingularError(label string) *NotSingularError {
	return &NotSingularError{label: label, count: -1}
}

// NewNotSingularErrorWithCount returns a new NotSingularError with the result count.
func NewNotSingularErrorWithCount(label string, count int) *NotSingularError {
	return &NotSingularError{label: label, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// NotLoadedError represents an error when reading a relation field that is
// still unresolved under the Deferred or Eager strategy.
type NotLoadedError struct {
	relation string
}

// Error returns the error string.
func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("relgraph: relation %q was not loaded", e.relation)
}

// Relation returns the unresolved relation name.
func (e *NotLoadedError) Relation() string {
	return e.relation
}

// NewNotLoadedError returns a new NotLoadedError for the given relation name.
func NewNotLoadedError(relation string) *NotLoadedError {
	return &NotLoadedError{relation: relation}
}

// IsNotLoaded returns true if the error is a NotLoadedError.
func IsNotLoaded(err error) bool {
	if err == nil {
		return false
	}
	var e *NotLoadedError
	return errors.As(err, &e)
}

// QueryError wraps a query error with additional context.
type QueryError struct {
	Entity string // Entity type being queried
	Op     string // Operation (e.g., "list", "get", "resolve")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("relgraph: querying %s (%s): %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("relgraph: querying %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError returns a new QueryError.
func NewQueryError(entity, op string, err error) *QueryError {
	return &QueryError{Entity: entity, Op: op, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// IsUnknownRelation returns true if the error reports an undeclared relation.
func IsUnknownRelation(err error) bool {
	return errors.Is(err, schema.ErrUnknownRelation)
}

// IsInvalidLoadPlan returns true if the error reports an unexecutable load plan.
func IsInvalidLoadPlan(err error) bool {
	return errors.Is(err, load.ErrInvalidPlan)
}

// IsStoreUnavailable returns true if the error reports a backing-store failure.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, store.ErrUnavailable)
}

// IsSessionClosed returns true if the error reports a closed session.
func IsSessionClosed(err error) bool {
	return errors.Is(err, ErrSessionClosed)
}
