// Package rel provides fluent builders for declaring entity relations.
//
// Relations come in two directions:
//
//   - rel.To: the association (forward direction)
//   - rel.From: the back-reference (inverse direction)
//
// Cardinality is determined by the Unique modifier:
//
//	// One-to-Many (default): Department has many Employees
//	rel.To("employees", "employee")
//
//	// Many-to-One: Employee belongs to a Department, through the
//	// department_id column on the employee row.
//	rel.From("department", "department").
//	    Ref("employees").
//	    Field("department_id").
//	    Unique()
//
// Single-valued relations carry their foreign key on the owning type and
// declare it with Field. Collection-valued relations carry no key of their
// own: the registry locates the inverse single-valued relation on the
// target type and reads through its foreign key.
package rel

// A Descriptor holds the configuration of a single relation as produced by
// the builders. It is consumed by the schema registry at build time.
type Descriptor struct {
	Name    string // Relation name on the owning type.
	Type    string // Target entity type.
	Field   string // Foreign-key field on the owning type, if bound.
	RefName string // Name of the forward relation (inverse direction only).
	Unique  bool   // Single-valued relation.
	Inverse bool   // Declared with From.
	Comment string
}

// Builder is the fluent builder returned by To and From.
type Builder struct {
	desc *Descriptor
}

// To defines the association (forward direction) of a relation to the given
// entity type. The default cardinality is collection-valued.
func To(name, target string) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Type: target}}
}

// From defines the back-reference (inverse direction) of a relation declared
// with To on the target type. Link the two sides with Ref.
func From(name, target string) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Type: target, Inverse: true}}
}

// Ref names the forward relation on the target type that this inverse
// relation refers back to.
func (b *Builder) Ref(name string) *Builder {
	b.desc.RefName = name
	return b
}

// Unique marks the relation as single-valued.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Field binds the relation to a foreign-key field declared on the owning
// type. Only meaningful for single-valued relations.
func (b *Builder) Field(name string) *Builder {
	b.desc.Field = name
	return b
}

// Comment sets a free-form comment on the relation.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor returns the built descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
