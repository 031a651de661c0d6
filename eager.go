package relgraph

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/relgraph/relgraph/internal/batch"
	"github.com/relgraph/relgraph/load"
	"github.com/relgraph/relgraph/schema"
	"github.com/relgraph/relgraph/store"
)

// runEager populates the relation paths of the plan on the given roots as
// one logical operation. Sibling paths are fetched concurrently; a parent
// segment is always resolved before its child segment is attempted. Any
// path failure fails the whole operation, so no entity is returned with a
// partially wrong field state.
func (s *Session) runEager(ctx context.Context, roots []*Entity, plan *load.Plan) error {
	if plan.Empty() || len(roots) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, path := range plan.Paths() {
		g.Go(func() error {
			return s.loadPath(gctx, roots, path)
		})
	}
	return g.Wait()
}

// loadPath resolves one relation path depth-first over a frontier of
// entities, starting at the roots.
func (s *Session) loadPath(ctx context.Context, roots []*Entity, path load.Path) error {
	frontier := roots
	for _, seg := range path {
		next, err := s.loadSegment(ctx, frontier, seg)
		if err != nil {
			return err
		}
		frontier = next
	}
	return nil
}

// loadSegment resolves a single relation on every entity of the frontier
// and returns the entities reached, deduplicated. Fields resolved earlier,
// by a sibling path sharing this prefix or by a shared target row, are read
// back without a second fetch.
func (s *Session) loadSegment(ctx context.Context, ents []*Entity, seg string) ([]*Entity, error) {
	if len(ents) == 0 {
		return nil, nil
	}
	r, err := s.client.reg.Describe(ents[0].typ, seg)
	if err != nil {
		return nil, err
	}
	switch r.Cardinality {
	case schema.One:
		err = s.loadOne(ctx, ents, r)
	default:
		err = s.loadMany(ctx, ents, r)
	}
	if err != nil {
		return nil, err
	}
	var next []*Entity
	seen := make(map[*Entity]struct{})
	for _, e := range ents {
		rv, ok := e.resolved(seg)
		if !ok {
			continue
		}
		for _, c := range rv.children() {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			next = append(next, c)
		}
	}
	return next, nil
}

// loadOne resolves a single-valued relation for a batch of owners. Owners
// sharing a foreign-key value are grouped so each distinct target row is
// fetched once and shared.
func (s *Session) loadOne(ctx context.Context, ents []*Entity, r *schema.Relation) error {
	var pending []*Entity
	for _, e := range ents {
		if _, ok := e.resolved(r.Name); !ok {
			pending = append(pending, e)
		}
	}
	groups := batch.GroupByKey(pending, func(e *Entity) any { return e.fields[r.ForeignKey] })
	for fk, group := range groups {
		if fk == nil {
			for _, e := range group {
				e.setResolved(r.Name, &relValue{state: ResolvedAbsent})
			}
			continue
		}
		row, err := s.client.store.Get(ctx, r.Target, fk)
		switch {
		case store.IsNotFound(err):
			for _, e := range group {
				e.setResolved(r.Name, &relValue{state: ResolvedAbsent})
			}
		case err != nil:
			return NewQueryError(r.Target, "get", err)
		default:
			child, merr := s.materialize(r.Target, row, group[0].strategy)
			if merr != nil {
				return merr
			}
			for _, e := range group {
				e.setResolved(r.Name, &relValue{state: ResolvedPresent, one: child})
			}
		}
	}
	return nil
}

// loadMany resolves a collection-valued relation for a batch of owners, one
// foreign-key listing per owner, rows ordered by the target's primary key.
func (s *Session) loadMany(ctx context.Context, ents []*Entity, r *schema.Relation) error {
	for _, e := range ents {
		if _, ok := e.resolved(r.Name); ok {
			continue
		}
		rows, err := s.client.store.ListByFK(ctx, r.Target, r.ForeignKey, e.id)
		if err != nil {
			return NewQueryError(r.Target, "list-fk", err)
		}
		children := make([]*Entity, 0, len(rows))
		for _, row := range rows {
			c, merr := s.materialize(r.Target, row, e.strategy)
			if merr != nil {
				return merr
			}
			children = append(children, c)
		}
		e.setResolved(r.Name, &relValue{state: ResolvedPresent, many: children})
	}
	return nil
}
