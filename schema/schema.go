// Package schema holds the relationship descriptor registry: the static
// metadata declaring, per entity type, its scalar fields and its navigable
// relations. The registry is populated once at configuration time, validated
// as a whole, and read-only thereafter.
package schema

import (
	"errors"
	"fmt"
	"sort"

	"github.com/relgraph/relgraph/schema/rel"
)

// Cardinality of a relation: single-valued or collection-valued.
type Cardinality uint8

const (
	// One is a single-valued relation. The foreign key lives on the
	// owning type.
	One Cardinality = iota + 1
	// Many is a collection-valued relation. The foreign key lives on the
	// target type and is located through the inverse relation.
	Many
)

// String returns the cardinality name.
func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case Many:
		return "many"
	default:
		return fmt.Sprintf("Cardinality(%d)", c)
	}
}

// Standard sentinel errors for registry lookups.
var (
	// ErrUnknownType is returned when a requested entity type is not registered.
	ErrUnknownType = errors.New("schema: unknown entity type")

	// ErrUnknownRelation is returned when a requested relation is not declared.
	ErrUnknownRelation = errors.New("schema: unknown relation")
)

// UnknownTypeError reports a lookup of an unregistered entity type.
type UnknownTypeError struct {
	Name string
}

// Error returns the error string.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("schema: unknown entity type %q", e.Name)
}

// Is reports whether the target error matches ErrUnknownType.
func (e *UnknownTypeError) Is(err error) bool {
	return err == ErrUnknownType
}

// UnknownRelationError reports a lookup of an undeclared relation.
type UnknownRelationError struct {
	Type string
	Name string
}

// Error returns the error string.
func (e *UnknownRelationError) Error() string {
	return fmt.Sprintf("schema: unknown relation %q on type %q", e.Name, e.Type)
}

// Is reports whether the target error matches ErrUnknownRelation.
func (e *UnknownRelationError) Is(err error) bool {
	return err == ErrUnknownRelation
}

// Relation is a fully resolved relationship descriptor. For One relations
// ForeignKey names the owner field holding the target's primary key; for
// Many relations it names the field on the target type referring back to
// the owner's primary key.
type Relation struct {
	Owner       string
	Name        string
	Target      string
	Cardinality Cardinality
	ForeignKey  string
	Comment     string
}

// Type is the mutable builder for a single entity type declaration. It is
// consumed by New; the resulting registry shares no state with it.
type Type struct {
	name   string
	id     string
	fields []string
	rels   []*rel.Descriptor
}

// NewType starts the declaration of an entity type. The primary-key field
// defaults to "id".
func NewType(name string) *Type {
	return &Type{name: name, id: "id"}
}

// ID overrides the primary-key field name.
func (t *Type) ID(name string) *Type {
	t.id = name
	return t
}

// Fields declares the scalar fields of the type. The primary-key field is
// always included and need not be repeated.
func (t *Type) Fields(names ...string) *Type {
	t.fields = append(t.fields, names...)
	return t
}

// Relations declares the navigable relations of the type.
func (t *Type) Relations(builders ...*rel.Builder) *Type {
	for _, b := range builders {
		t.rels = append(t.rels, b.Descriptor())
	}
	return t
}

// TypeInfo is the read-only registry view of a single entity type.
type TypeInfo struct {
	name   string
	id     string
	fields map[string]struct{}
	rels   map[string]*Relation
}

// Name returns the entity type name.
func (t *TypeInfo) Name() string { return t.name }

// IDField returns the primary-key field name.
func (t *TypeInfo) IDField() string { return t.id }

// HasField reports whether the type declares the scalar field.
func (t *TypeInfo) HasField(name string) bool {
	_, ok := t.fields[name]
	return ok
}

// Fields returns the declared scalar field names, sorted.
func (t *TypeInfo) Fields() []string {
	out := make([]string, 0, len(t.fields))
	for f := range t.fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Relation returns the named relation, or nil if undeclared.
func (t *TypeInfo) Relation(name string) *Relation {
	return t.rels[name]
}

// Relations returns all declared relations, sorted by name.
func (t *TypeInfo) Relations() []*Relation {
	out := make([]*Relation, 0, len(t.rels))
	for _, r := range t.rels {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Registry is the immutable set of validated entity type declarations.
type Registry struct {
	types map[string]*TypeInfo
}

// New builds a Registry from the given type declarations and validates it:
// relation targets must be registered, single-valued relations must bind a
// declared foreign-key field on the owner, and collection-valued relations
// must have a matching inverse single-valued relation on the target.
func New(types ...*Type) (*Registry, error) {
	r := &Registry{types: make(map[string]*TypeInfo, len(types))}
	for _, t := range types {
		if t.name == "" {
			return nil, errors.New("schema: entity type with empty name")
		}
		if _, ok := r.types[t.name]; ok {
			return nil, fmt.Errorf("schema: duplicate entity type %q", t.name)
		}
		ti := &TypeInfo{
			name:   t.name,
			id:     t.id,
			fields: make(map[string]struct{}, len(t.fields)+1),
			rels:   make(map[string]*Relation, len(t.rels)),
		}
		ti.fields[t.id] = struct{}{}
		for _, f := range t.fields {
			if _, ok := ti.fields[f]; ok && f != t.id {
				return nil, fmt.Errorf("schema: duplicate field %q on type %q", f, t.name)
			}
			ti.fields[f] = struct{}{}
		}
		r.types[t.name] = ti
	}
	// Relations are linked in a second pass so that declaration order
	// between types does not matter.
	for _, t := range types {
		ti := r.types[t.name]
		for _, d := range t.rels {
			if _, ok := ti.rels[d.Name]; ok {
				return nil, fmt.Errorf("schema: duplicate relation %q on type %q", d.Name, t.name)
			}
			if ti.HasField(d.Name) {
				return nil, fmt.Errorf("schema: relation %q on type %q collides with a field", d.Name, t.name)
			}
			relation, err := r.link(t, d, types)
			if err != nil {
				return nil, err
			}
			ti.rels[d.Name] = relation
		}
	}
	return r, nil
}

// link resolves a single descriptor into a Relation, validating the
// foreign-key invariants.
func (r *Registry) link(owner *Type, d *rel.Descriptor, all []*Type) (*Relation, error) {
	target, ok := r.types[d.Type]
	if !ok {
		return nil, fmt.Errorf("schema: relation %q on type %q: %w %q", d.Name, owner.name, ErrUnknownType, d.Type)
	}
	if d.Unique {
		if d.Field == "" {
			return nil, fmt.Errorf("schema: relation %q on type %q: single-valued relation requires a foreign-key field", d.Name, owner.name)
		}
		if !r.types[owner.name].HasField(d.Field) {
			return nil, fmt.Errorf("schema: relation %q on type %q: foreign-key field %q is not declared", d.Name, owner.name, d.Field)
		}
		return &Relation{
			Owner:       owner.name,
			Name:        d.Name,
			Target:      target.name,
			Cardinality: One,
			ForeignKey:  d.Field,
			Comment:     d.Comment,
		}, nil
	}
	// Collection-valued: locate the inverse single-valued descriptor on the
	// target type and read through its foreign key.
	inv := inverseOf(owner.name, d, all)
	if inv == nil {
		return nil, fmt.Errorf("schema: relation %q on type %q: no inverse single-valued relation on type %q", d.Name, owner.name, d.Type)
	}
	if inv.Field == "" || !r.types[target.name].HasField(inv.Field) {
		return nil, fmt.Errorf("schema: relation %q on type %q: inverse relation %q on type %q does not bind a declared foreign-key field", d.Name, owner.name, inv.Name, d.Type)
	}
	return &Relation{
		Owner:       owner.name,
		Name:        d.Name,
		Target:      target.name,
		Cardinality: Many,
		ForeignKey:  inv.Field,
		Comment:     d.Comment,
	}, nil
}

// inverseOf finds, on the relation's target type, the single-valued
// descriptor forming the other side of a collection-valued relation.
func inverseOf(ownerName string, d *rel.Descriptor, all []*Type) *rel.Descriptor {
	var targetDecl *Type
	for _, t := range all {
		if t.name == d.Type {
			targetDecl = t
			break
		}
	}
	if targetDecl == nil {
		return nil
	}
	for _, cand := range targetDecl.rels {
		if !cand.Unique || cand.Type != ownerName {
			continue
		}
		switch {
		case d.Inverse && cand.Name == d.RefName:
			// From("employees", "employee").Ref("department") pairs with the
			// forward To("department", ...).Unique() on the target.
			return cand
		case !d.Inverse && cand.Inverse && cand.RefName == d.Name:
			// To("employees", "employee") pairs with the inverse
			// From("department", ...).Ref("employees").Unique() on the target.
			return cand
		}
	}
	return nil
}

// Type returns the read-only view of the named entity type.
func (r *Registry) Type(name string) (*TypeInfo, error) {
	ti, ok := r.types[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return ti, nil
}

// Describe returns the resolved relation declared under the given name on
// the given type. It fails with ErrUnknownRelation when undeclared.
func (r *Registry) Describe(typ, name string) (*Relation, error) {
	ti, ok := r.types[typ]
	if !ok {
		return nil, &UnknownTypeError{Name: typ}
	}
	relation := ti.Relation(name)
	if relation == nil {
		return nil, &UnknownRelationError{Type: typ, Name: name}
	}
	return relation, nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
