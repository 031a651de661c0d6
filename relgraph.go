// Package relgraph resolves related-entity data over a row-oriented backing
// store, demonstrating three relationship-loading strategies:
//
//   - Deferred: the root fetch populates scalar fields only; the caller
//     resolves relation fields explicitly with Session.Resolve.
//   - Eager: a LoadPlan names the relation paths to populate as part of the
//     root query; everything requested is resolved before the query returns.
//   - Implicit: the first read of a relation field triggers a synchronous
//     resolution through the entity's originating session.
//
// A relation field is always in exactly one of three states: unresolved
// (never fetched), resolved-absent (fetched, nothing there) or
// resolved-present (fetched, holds one entity or an ordered list). The
// transition out of unresolved is terminal and happens at most once.
//
// Basic usage:
//
//	reg, _ := schema.New(
//	    schema.NewType("department").Fields("name").
//	        Relations(rel.To("employees", "employee")),
//	    schema.NewType("employee").Fields("name", "department_id").
//	        Relations(rel.From("department", "department").
//	            Ref("employees").Field("department_id").Unique()),
//	)
//	client := relgraph.NewClient(st, reg)
//	sess := client.NewSession()
//	defer sess.Close()
//
//	emps, err := sess.Query("employee").
//	    Strategy(relgraph.Eager).
//	    WithPlan(load.MustPlan("department")).
//	    All(ctx)
package relgraph

import "fmt"

// Strategy selects how relation fields of queried entities are populated.
type Strategy uint8

const (
	// Deferred leaves every relation field unresolved; the caller issues
	// explicit Resolve calls and controls the roundtrip count exactly.
	Deferred Strategy = iota

	// Eager resolves the relation paths named in the query's LoadPlan
	// before the query returns. Paths outside the plan stay unresolved.
	Eager

	// Implicit resolves a relation field synchronously on its first read,
	// transparently to the caller, through the entity's session.
	Implicit
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Deferred:
		return "deferred"
	case Eager:
		return "eager"
	case Implicit:
		return "implicit"
	default:
		return fmt.Sprintf("Strategy(%d)", s)
	}
}

// RelState is the resolution state of a single relation field.
type RelState uint8

const (
	// Unresolved means the relation was never fetched. Distinct from an
	// empty result.
	Unresolved RelState = iota

	// ResolvedAbsent means the relation was fetched and no related row
	// exists. Terminal.
	ResolvedAbsent

	// ResolvedPresent means the relation was fetched and holds a related
	// entity, or an ordered (possibly empty) list of them. Terminal.
	ResolvedPresent
)

// String returns the state name.
func (s RelState) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case ResolvedAbsent:
		return "resolved-absent"
	case ResolvedPresent:
		return "resolved-present"
	default:
		return fmt.Sprintf("RelState(%d)", s)
	}
}

// Resolved reports whether the state is terminal.
func (s RelState) Resolved() bool {
	return s == ResolvedAbsent || s == ResolvedPresent
}
