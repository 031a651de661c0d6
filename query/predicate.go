// Package query provides type-safe predicate builders for root queries.
//
// Predicates are closures over a store Selector. Typed generic fields
// define each comparison once and work with any predicate type based on
// func(*store.Selector):
//
//	var ID = query.IntField[store.Predicate]("id")
//	sess.Query("employee").Where(ID.EQ(1))
package query

import "github.com/relgraph/relgraph/store"

// PredicateFunc is a constraint type for predicate functions. It allows
// generic field types to work with any predicate type that is based on
// func(*store.Selector).
type PredicateFunc interface {
	~func(*store.Selector)
}

// FieldEQ returns a predicate that checks if the field equals the given value.
func FieldEQ(name string, v any) func(*store.Selector) {
	return func(s *store.Selector) {
		s.Where(store.Cond{Field: name, Op: store.OpEQ, Value: v})
	}
}

// FieldNEQ returns a predicate that checks if the field does not equal the given value.
func FieldNEQ(name string, v any) func(*store.Selector) {
	return func(s *store.Selector) {
		s.Where(store.Cond{Field: name, Op: store.OpNEQ, Value: v})
	}
}

// FieldGT returns a predicate that checks if the field is greater than the given value.
func FieldGT(name string, v any) func(*store.Selector) {
	return func(s *store.Selector) {
		s.Where(store.Cond{Field: name, Op: store.OpGT, Value: v})
	}
}

// FieldGTE returns a predicate that checks if the field is greater than or equal to the given value.
func FieldGTE(name string, v any) func(*store.Selector) {
	return func(s *store.Selector) {
		s.Where(store.Cond{Field: name, Op: store.OpGTE, Value: v})
	}
}

// FieldLT returns a predicate that checks if the field is less than the given value.
func FieldLT(name string, v any) func(*store.Selector) {
	return func(s *store.Selector) {
		s.Where(store.Cond{Field: name, Op: store.OpLT, Value: v})
	}
}

// FieldLTE returns a predicate that checks if the field is less than or equal to the given value.
func FieldLTE(name string, v any) func(*store.Selector) {
	return func(s *store.Selector) {
		s.Where(store.Cond{Field: name, Op: store.OpLTE, Value: v})
	}
}

// FieldIn returns a predicate that checks if the field value is in the given list.
func FieldIn[T any](name string, vs ...T) func(*store.Selector) {
	return func(s *store.Selector) {
		v := make([]any, len(vs))
		for i := range vs {
			v[i] = vs[i]
		}
		s.Where(store.Cond{Field: name, Op: store.OpIn, Values: v})
	}
}

// StringField is a generic string field that provides type-safe predicate methods.
type StringField[P PredicateFunc] string

// Name returns the field name.
func (f StringField[P]) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f StringField[P]) EQ(v string) P {
	return P(FieldEQ(string(f), v))
}

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f StringField[P]) NEQ(v string) P {
	return P(FieldNEQ(string(f), v))
}

// In returns a predicate that checks if the field value is in the given list.
func (f StringField[P]) In(vs ...string) P {
	return P(FieldIn(string(f), vs...))
}

// GT returns a predicate that checks if the field is greater than the given value.
func (f StringField[P]) GT(v string) P {
	return P(FieldGT(string(f), v))
}

// LT returns a predicate that checks if the field is less than the given value.
func (f StringField[P]) LT(v string) P {
	return P(FieldLT(string(f), v))
}

// IntField is a generic integer field that provides type-safe predicate methods.
type IntField[P PredicateFunc] string

// Name returns the field name.
func (f IntField[P]) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f IntField[P]) EQ(v int) P {
	return P(FieldEQ(string(f), v))
}

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f IntField[P]) NEQ(v int) P {
	return P(FieldNEQ(string(f), v))
}

// In returns a predicate that checks if the field value is in the given list.
func (f IntField[P]) In(vs ...int) P {
	return P(FieldIn(string(f), vs...))
}

// GT returns a predicate that checks if the field is greater than the given value.
func (f IntField[P]) GT(v int) P {
	return P(FieldGT(string(f), v))
}

// GTE returns a predicate that checks if the field is greater than or equal to the given value.
func (f IntField[P]) GTE(v int) P {
	return P(FieldGTE(string(f), v))
}

// LT returns a predicate that checks if the field is less than the given value.
func (f IntField[P]) LT(v int) P {
	return P(FieldLT(string(f), v))
}

// LTE returns a predicate that checks if the field is less than or equal to the given value.
func (f IntField[P]) LTE(v int) P {
	return P(FieldLTE(string(f), v))
}

// Int64Field is a generic int64 field that provides type-safe predicate methods.
type Int64Field[P PredicateFunc] string

// Name returns the field name.
func (f Int64Field[P]) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Int64Field[P]) EQ(v int64) P {
	return P(FieldEQ(string(f), v))
}

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f Int64Field[P]) NEQ(v int64) P {
	return P(FieldNEQ(string(f), v))
}

// In returns a predicate that checks if the field value is in the given list.
func (f Int64Field[P]) In(vs ...int64) P {
	return P(FieldIn(string(f), vs...))
}

// GT returns a predicate that checks if the field is greater than the given value.
func (f Int64Field[P]) GT(v int64) P {
	return P(FieldGT(string(f), v))
}

// LT returns a predicate that checks if the field is less than the given value.
func (f Int64Field[P]) LT(v int64) P {
	return P(FieldLT(string(f), v))
}

// BoolField is a generic boolean field that provides type-safe predicate methods.
type BoolField[P PredicateFunc] string

// Name returns the field name.
func (f BoolField[P]) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f BoolField[P]) EQ(v bool) P {
	return P(FieldEQ(string(f), v))
}

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f BoolField[P]) NEQ(v bool) P {
	return P(FieldNEQ(string(f), v))
}
