// Package load defines the LoadPlan: the immutable, validated set of
// relation paths requested for eager resolution on a root query.
//
// A plan is constructed once and passed by value into the query facade;
// there is no shared mutable builder state between queries. Paths use dot
// notation for nesting:
//
//	plan, err := load.NewPlan("department", "department.manager")
//
// Validation walks each path segment against the descriptor registry,
// failing fast before any store access.
package load

import (
	"errors"
	"fmt"
	"strings"

	"github.com/relgraph/relgraph/schema"
)

// ErrInvalidPlan is returned when a load plan is structurally invalid or
// does not start from the queried root type.
var ErrInvalidPlan = errors.New("load: invalid load plan")

// InvalidPlanError reports a load-plan path that cannot be executed.
type InvalidPlanError struct {
	Path   string
	Reason string
}

// Error returns the error string.
func (e *InvalidPlanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load: invalid load plan: %s", e.Reason)
	}
	return fmt.Sprintf("load: invalid load plan path %q: %s", e.Path, e.Reason)
}

// Is reports whether the target error matches ErrInvalidPlan.
func (e *InvalidPlanError) Is(err error) bool {
	return err == ErrInvalidPlan
}

// Path is a parsed relation path: one relation name per segment.
type Path []string

// String returns the dot-joined form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// ParsePath parses a dot-separated relation path.
func ParsePath(path string) (Path, error) {
	if path == "" {
		return nil, &InvalidPlanError{Reason: "empty path"}
	}
	segs := strings.Split(path, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, &InvalidPlanError{Path: path, Reason: "empty path segment"}
		}
	}
	return Path(segs), nil
}

// Plan is an immutable ordered sequence of relation paths. The zero value
// is the empty plan.
type Plan struct {
	paths []Path
}

// NewPlan parses the given dot-separated paths into a Plan.
func NewPlan(paths ...string) (*Plan, error) {
	p := &Plan{paths: make([]Path, 0, len(paths))}
	for _, raw := range paths {
		parsed, err := ParsePath(raw)
		if err != nil {
			return nil, err
		}
		p.paths = append(p.paths, parsed)
	}
	return p, nil
}

// MustPlan is like NewPlan but panics on a malformed path. Intended for
// plans built from constants.
func MustPlan(paths ...string) *Plan {
	p, err := NewPlan(paths...)
	if err != nil {
		panic(err)
	}
	return p
}

// Paths returns a copy of the plan's paths, in declaration order.
func (p *Plan) Paths() []Path {
	if p == nil {
		return nil
	}
	out := make([]Path, len(p.paths))
	copy(out, p.paths)
	return out
}

// Empty reports whether the plan requests no paths.
func (p *Plan) Empty() bool {
	return p == nil || len(p.paths) == 0
}

// String returns the comma-joined form of the plan's paths.
func (p *Plan) String() string {
	if p.Empty() {
		return ""
	}
	parts := make([]string, len(p.paths))
	for i, path := range p.paths {
		parts[i] = path.String()
	}
	return strings.Join(parts, ",")
}

// Validate checks every path segment against the registry, starting from
// the given root type. It returns schema.ErrUnknownRelation for an
// undeclared segment and ErrInvalidPlan when the root type itself is not
// registered. No store access happens here.
func (p *Plan) Validate(reg *schema.Registry, rootType string) error {
	if p.Empty() {
		return nil
	}
	if _, err := reg.Type(rootType); err != nil {
		return &InvalidPlanError{Reason: fmt.Sprintf("root type %q is not registered", rootType)}
	}
	for _, path := range p.paths {
		typ := rootType
		for _, seg := range path {
			r, err := reg.Describe(typ, seg)
			if err != nil {
				return err
			}
			typ = r.Target
		}
	}
	return nil
}
