package relgraph

import (
	"context"

	"github.com/relgraph/relgraph/load"
	"github.com/relgraph/relgraph/schema"
	"github.com/relgraph/relgraph/store"
)

// Resolve resolves the dot-separated relation path on the given entity,
// walking the path depth-first: each segment is resolved on every entity
// reached by the previous one. Resolution is idempotent per field; segments
// already resolved are read back without a store fetch.
func (s *Session) Resolve(ctx context.Context, e *Entity, path string) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	p, err := load.ParsePath(path)
	if err != nil {
		return err
	}
	frontier := []*Entity{e}
	for _, seg := range p {
		var next []*Entity
		for _, cur := range frontier {
			r, err := s.client.reg.Describe(cur.typ, seg)
			if err != nil {
				return err
			}
			rv, err := s.resolveOrGet(ctx, cur, r)
			if err != nil {
				return err
			}
			next = append(next, rv.children()...)
		}
		frontier = next
	}
	return nil
}

// resolveOrGet returns the field's terminal value, fetching it first if the
// field is still unresolved.
func (s *Session) resolveOrGet(ctx context.Context, e *Entity, r *schema.Relation) (*relValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if rv, ok := e.rels[r.Name]; ok {
		return rv, nil
	}
	return s.resolveLocked(ctx, e, r)
}

// resolveLocked fetches the relation and installs its terminal state. The
// caller must hold e.mu; the lock is held across the store fetch so that a
// concurrent reader of the same field blocks and then observes the terminal
// state instead of fetching again.
//
// On a store failure nothing is installed: the field stays unresolved
// rather than being marked absent.
func (s *Session) resolveLocked(ctx context.Context, e *Entity, r *schema.Relation) (*relValue, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	rv, err := s.fetchRelation(ctx, e, r)
	if err != nil {
		return nil, err
	}
	e.rels[r.Name] = rv
	s.log.Debug("relation resolved",
		"entity", e.String(), "relation", r.Name, "state", rv.state.String())
	return rv, nil
}

// fetchRelation performs the store reads backing a single field resolution.
func (s *Session) fetchRelation(ctx context.Context, e *Entity, r *schema.Relation) (*relValue, error) {
	switch r.Cardinality {
	case schema.One:
		fk, ok := e.fields[r.ForeignKey]
		if !ok || fk == nil {
			// Null foreign key: nothing to fetch.
			return &relValue{state: ResolvedAbsent}, nil
		}
		row, err := s.client.store.Get(ctx, r.Target, fk)
		if store.IsNotFound(err) {
			return &relValue{state: ResolvedAbsent}, nil
		}
		if err != nil {
			return nil, NewQueryError(r.Target, "get", err)
		}
		child, err := s.materialize(r.Target, row, e.strategy)
		if err != nil {
			return nil, err
		}
		return &relValue{state: ResolvedPresent, one: child}, nil
	default:
		rows, err := s.client.store.ListByFK(ctx, r.Target, r.ForeignKey, e.id)
		if err != nil {
			return nil, NewQueryError(r.Target, "list-fk", err)
		}
		children := make([]*Entity, 0, len(rows))
		for _, row := range rows {
			c, err := s.materialize(r.Target, row, e.strategy)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		// No matches is resolved-present with an empty ordered sequence,
		// never resolved-absent.
		return &relValue{state: ResolvedPresent, many: children}, nil
	}
}

// materialize builds an Entity of the given type from a store row. The
// entity inherits the session back-reference and the query's strategy.
func (s *Session) materialize(typ string, row store.Row, strategy Strategy) (*Entity, error) {
	ti, err := s.client.reg.Type(typ)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any, len(row))
	for k, v := range row {
		fields[k] = v
	}
	return &Entity{
		typ:      typ,
		id:       fields[ti.IDField()],
		strategy: strategy,
		sess:     s,
		fields:   fields,
		rels:     make(map[string]*relValue),
	}, nil
}
