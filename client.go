package relgraph

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/relgraph/relgraph/load"
	"github.com/relgraph/relgraph/schema"
	"github.com/relgraph/relgraph/store"
)

// Client composes a backing store with a descriptor registry. It is safe
// for concurrent use; per-query state lives on sessions and queries.
type Client struct {
	store store.Store
	reg   *schema.Registry
	log   *slog.Logger
}

// NewClient returns a Client over the given store and registry.
func NewClient(st store.Store, reg *schema.Registry, opts ...Option) *Client {
	c := &Client{store: st, reg: reg, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for query and resolution
// debug logging.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// Store returns the underlying store.
func (c *Client) Store() store.Store { return c.store }

// Registry returns the descriptor registry.
func (c *Client) Registry() *schema.Registry { return c.reg }

// NewSession opens a new Session. Sessions are cheap; open one per unit of
// work and close it when the work's scope ends.
func (c *Client) NewSession() *Session {
	id := uuid.New()
	return &Session{
		client: c,
		id:     id,
		log:    c.log.With("session", id.String()),
	}
}

// Session scopes the lifetime of the entities it materializes. Entities
// keep a weak back-reference to their session for later resolution; once
// the session is closed, resolution fails with ErrSessionClosed rather
// than returning stale data.
type Session struct {
	client *Client
	id     uuid.UUID
	log    *slog.Logger
	closed atomic.Bool
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Close invalidates the session. Closing an already-closed session is a
// no-op. Relation fields resolved before the close stay readable.
func (s *Session) Close() error {
	if !s.closed.Swap(true) {
		s.log.Debug("session closed")
	}
	return nil
}

// Query starts building a query for the given entity type. The default
// strategy is Deferred.
func (s *Session) Query(typ string) *Query {
	return &Query{
		sess: s,
		typ:  typ,
		sel:  store.NewSelector(),
	}
}

// Query is a single root query under construction. The strategy context
// (strategy plus, for Eager, the load plan) is fixed per query.
type Query struct {
	sess     *Session
	typ      string
	sel      *store.Selector
	strategy Strategy
	plan     *load.Plan
	err      error
}

// Where appends predicate conditions to the query.
func (q *Query) Where(ps ...store.Predicate) *Query {
	for _, p := range ps {
		p(q.sel)
	}
	return q
}

// OrderBy sets explicit ordering fields. The primary key is always the
// final tiebreaker.
func (q *Query) OrderBy(fields ...string) *Query {
	q.sel.OrderBy(fields...)
	return q
}

// Limit caps the number of root entities returned.
func (q *Query) Limit(n int) *Query {
	q.sel.Limit(n)
	return q
}

// Strategy selects the loading strategy for this query.
func (q *Query) Strategy(s Strategy) *Query {
	q.strategy = s
	return q
}

// WithPlan attaches the load plan resolved under the Eager strategy.
func (q *Query) WithPlan(p *load.Plan) *Query {
	q.plan = p
	return q
}

// All executes the query and returns all matching entities, ordered by
// primary key ascending unless ordered explicitly.
//
// The plan, if any, is validated against the registry before any store
// access: an undeclared path segment fails with ErrUnknownRelation and a
// structurally invalid plan with ErrInvalidLoadPlan, with no partial fetch
// side effects.
func (q *Query) All(ctx context.Context) ([]*Entity, error) {
	if err := q.prepare(); err != nil {
		return nil, err
	}
	start := time.Now()
	rows, err := q.sess.client.store.List(ctx, q.typ, q.sel)
	if err != nil {
		return nil, NewQueryError(q.typ, "list", err)
	}
	ents, err := q.materialize(rows)
	if err != nil {
		return nil, err
	}
	if q.strategy == Eager {
		if err := q.sess.runEager(ctx, ents, q.plan); err != nil {
			return nil, err
		}
	}
	q.sess.log.Debug("query executed",
		"type", q.typ,
		"strategy", q.strategy.String(),
		"plan", q.plan.String(),
		"count", len(ents),
		"duration", time.Since(start),
	)
	return ents, nil
}

// Only executes the query and returns the single matching entity. It fails
// with a NotFoundError when no entity matches and a NotSingularError when
// more than one does.
func (q *Query) Only(ctx context.Context) (*Entity, error) {
	limited := *q
	sel := *q.sel
	limited.sel = sel.Limit(2)
	ents, err := limited.All(ctx)
	if err != nil {
		return nil, err
	}
	switch len(ents) {
	case 1:
		return ents[0], nil
	case 0:
		return nil, NewNotFoundError(q.typ)
	default:
		return nil, NewNotSingularErrorWithCount(q.typ, len(ents))
	}
}

// ByID executes a point lookup by primary key, honoring the query's
// strategy context. It fails with a NotFoundError when the id has no row.
func (q *Query) ByID(ctx context.Context, id any) (*Entity, error) {
	if err := q.prepare(); err != nil {
		return nil, err
	}
	row, err := q.sess.client.store.Get(ctx, q.typ, id)
	if store.IsNotFound(err) {
		return nil, NewNotFoundErrorWithID(q.typ, id)
	}
	if err != nil {
		return nil, NewQueryError(q.typ, "get", err)
	}
	e, err := q.sess.materialize(q.typ, row, q.strategy)
	if err != nil {
		return nil, err
	}
	if q.strategy == Eager {
		if err := q.sess.runEager(ctx, []*Entity{e}, q.plan); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// prepare validates the query before any store access.
func (q *Query) prepare() error {
	if q.err != nil {
		return q.err
	}
	if q.sess.closed.Load() {
		return ErrSessionClosed
	}
	if _, err := q.sess.client.reg.Type(q.typ); err != nil {
		return err
	}
	if !q.plan.Empty() && q.strategy != Eager {
		return &load.InvalidPlanError{
			Path:   q.plan.String(),
			Reason: fmt.Sprintf("load plan requires the eager strategy, got %s", q.strategy),
		}
	}
	if q.strategy == Eager {
		if err := q.plan.Validate(q.sess.client.reg, q.typ); err != nil {
			return err
		}
	}
	return nil
}

func (q *Query) materialize(rows []store.Row) ([]*Entity, error) {
	ents := make([]*Entity, 0, len(rows))
	for _, row := range rows {
		e, err := q.sess.materialize(q.typ, row, q.strategy)
		if err != nil {
			return nil, err
		}
		ents = append(ents, e)
	}
	return ents, nil
}
