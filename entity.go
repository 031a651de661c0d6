package relgraph

import (
	"context"
	"fmt"
	"sync"

	"github.com/relgraph/relgraph/schema"
)

// Entity is a materialized row: named scalar fields plus relation fields.
//
// Scalar fields are immutable after materialization. Relation fields are
// mutated only by the loading engine, transitioning each field at most once
// from unresolved to a terminal resolved state. The per-entity mutex makes
// that transition atomic, so under the Implicit strategy two goroutines
// reading the same field still trigger exactly one store fetch.
//
// An Entity keeps its type tag and a back-reference to its originating
// Session purely to support later resolution. The back-reference is weak:
// once the session is closed, resolution fails with ErrSessionClosed.
type Entity struct {
	typ      string
	id       any
	strategy Strategy
	sess     *Session

	fields map[string]any

	mu   sync.Mutex
	rels map[string]*relValue
}

// relValue is the terminal value of a resolved relation field. A field with
// no relValue entry is unresolved.
type relValue struct {
	state RelState
	one   *Entity
	many  []*Entity
}

// Type returns the entity's type name.
func (e *Entity) Type() string { return e.typ }

// ID returns the entity's primary-key value.
func (e *Entity) ID() any { return e.id }

// String returns a short description of the entity.
func (e *Entity) String() string {
	return fmt.Sprintf("%s(%v)", e.typ, e.id)
}

// Field returns the named scalar field value and whether it is present on
// the row.
func (e *Entity) Field(name string) (any, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Fields returns a copy of the entity's scalar fields.
func (e *Entity) Fields() map[string]any {
	out := make(map[string]any, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// RelState returns the resolution state of the named relation field without
// triggering resolution, even under the Implicit strategy.
func (e *Entity) RelState(name string) RelState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rv, ok := e.rels[name]; ok {
		return rv.state
	}
	return Unresolved
}

// Rel returns the value of a single-valued relation field.
//
// A resolved-absent field yields (nil, nil). An unresolved field triggers
// one synchronous resolution under the Implicit strategy; under Deferred or
// Eager it returns a NotLoadedError instead.
func (e *Entity) Rel(ctx context.Context, name string) (*Entity, error) {
	r, err := e.describe(name)
	if err != nil {
		return nil, err
	}
	if r.Cardinality != schema.One {
		return nil, fmt.Errorf("relgraph: relation %q on type %q is collection-valued, use Rels", name, e.typ)
	}
	rv, err := e.read(ctx, r)
	if err != nil {
		return nil, err
	}
	return rv.one, nil
}

// Rels returns the value of a collection-valued relation field, ordered by
// the target's primary key ascending. Resolution semantics match Rel; a
// resolved field with no matches yields an empty, non-nil slice.
func (e *Entity) Rels(ctx context.Context, name string) ([]*Entity, error) {
	r, err := e.describe(name)
	if err != nil {
		return nil, err
	}
	if r.Cardinality != schema.Many {
		return nil, fmt.Errorf("relgraph: relation %q on type %q is single-valued, use Rel", name, e.typ)
	}
	rv, err := e.read(ctx, r)
	if err != nil {
		return nil, err
	}
	out := make([]*Entity, len(rv.many))
	copy(out, rv.many)
	return out, nil
}

// Resolve explicitly resolves the dot-separated relation path on this
// entity through its originating session. It is the Deferred strategy's
// post-hoc resolution call and is idempotent per field.
func (e *Entity) Resolve(ctx context.Context, path string) error {
	return e.sess.Resolve(ctx, e, path)
}

// read returns the terminal value of the relation field, resolving it first
// when the Implicit strategy allows.
func (e *Entity) read(ctx context.Context, r *schema.Relation) (*relValue, error) {
	e.mu.Lock()
	if rv, ok := e.rels[r.Name]; ok {
		e.mu.Unlock()
		return rv, nil
	}
	if e.strategy != Implicit {
		e.mu.Unlock()
		return nil, NewNotLoadedError(r.Name)
	}
	rv, err := e.sess.resolveLocked(ctx, e, r)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// describe looks up the relation metadata through the entity's type tag.
// Metadata lookup stays valid after the session closes; only resolution is
// invalidated.
func (e *Entity) describe(name string) (*schema.Relation, error) {
	return e.sess.client.reg.Describe(e.typ, name)
}

// resolved returns the terminal value if the field is resolved.
func (e *Entity) resolved(name string) (*relValue, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rv, ok := e.rels[name]
	return rv, ok
}

// setResolved installs the terminal value for the field unless another
// resolution won the race, and returns the value actually in place.
func (e *Entity) setResolved(name string, rv *relValue) *relValue {
	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.rels[name]; ok {
		return existing
	}
	e.rels[name] = rv
	return rv
}

// children returns the related entities held by a terminal value.
func (rv *relValue) children() []*Entity {
	switch rv.state {
	case ResolvedPresent:
		if rv.one != nil {
			return []*Entity{rv.one}
		}
		return rv.many
	default:
		return nil
	}
}
