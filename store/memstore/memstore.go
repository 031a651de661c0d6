// Package memstore provides an in-memory Store backed by per-table maps.
//
// Rows are kept msgpack-encoded: every read decodes a fresh copy, so no two
// callers ever alias the same Row and seeded data cannot be mutated through
// query results. Multi-row reads are ordered by primary key ascending, as
// the Store contract requires.
package memstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/relgraph/relgraph/store"
)

// Store is an in-memory implementation of store.Store. The zero value is
// not usable; construct with New and register tables before inserting.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
}

type table struct {
	id   string
	rows map[any][]byte // normalized id -> msgpack-encoded row
}

// New returns an empty Store.
func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

// CreateTable registers a table and its primary-key column. Registering an
// existing table is a no-op.
func (s *Store) CreateTable(name, idColumn string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[name]; !ok {
		s.tables[name] = &table{id: idColumn, rows: make(map[any][]byte)}
	}
	return s
}

// Insert encodes and stores the given rows. Each row must carry a non-nil
// primary-key value; an existing row with the same key is replaced.
func (s *Store) Insert(tableName string, rows ...store.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[tableName]
	if !ok {
		return fmt.Errorf("memstore: table %q not registered", tableName)
	}
	for _, row := range rows {
		id, ok := row[t.id]
		if !ok || id == nil {
			return fmt.Errorf("memstore: row for table %q has no %q value", tableName, t.id)
		}
		data, err := msgpack.Marshal(map[string]any(row))
		if err != nil {
			return fmt.Errorf("memstore: encoding row for table %q: %w", tableName, err)
		}
		t.rows[normalize(id)] = data
	}
	return nil
}

// Get implements store.Store.
func (s *Store) Get(_ context.Context, tableName string, id any) (store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table("get", tableName)
	if err != nil {
		return nil, err
	}
	data, ok := t.rows[normalize(id)]
	if !ok {
		return nil, store.ErrNotFound
	}
	row, derr := decodeRow(data)
	if derr != nil {
		return nil, store.NewUnavailableError("get", tableName, derr)
	}
	return row, nil
}

// ListByFK implements store.Store.
func (s *Store) ListByFK(_ context.Context, tableName, fkField string, value any) ([]store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table("list-fk", tableName)
	if err != nil {
		return nil, err
	}
	want := normalize(value)
	rows := make([]store.Row, 0)
	for _, data := range t.rows {
		row, derr := decodeRow(data)
		if derr != nil {
			return nil, store.NewUnavailableError("list-fk", tableName, derr)
		}
		if c, ok := compare(row[fkField], want); ok && c == 0 {
			rows = append(rows, row)
		}
	}
	sortRows(rows, nil, t.id)
	return rows, nil
}

// List implements store.Store.
func (s *Store) List(_ context.Context, tableName string, sel *store.Selector) ([]store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.table("list", tableName)
	if err != nil {
		return nil, err
	}
	rows := make([]store.Row, 0)
	for _, data := range t.rows {
		row, derr := decodeRow(data)
		if derr != nil {
			return nil, store.NewUnavailableError("list", tableName, derr)
		}
		if sel == nil || matchAll(row, sel.Conds()) {
			rows = append(rows, row)
		}
	}
	var order []string
	limit := 0
	if sel != nil {
		order = sel.Order()
		limit = sel.LimitValue()
	}
	sortRows(rows, order, t.id)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Store) table(op, name string) (*table, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, store.NewUnavailableError(op, name, errors.New("memstore: table not registered"))
	}
	return t, nil
}

func decodeRow(data []byte) (store.Row, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var row map[string]any
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	return store.Row(row), nil
}

func matchAll(row store.Row, conds []store.Cond) bool {
	for _, c := range conds {
		if !match(row, c) {
			return false
		}
	}
	return true
}

func match(row store.Row, c store.Cond) bool {
	v := row[c.Field]
	switch c.Op {
	case store.OpEQ:
		cmp, ok := compare(v, c.Value)
		return ok && cmp == 0
	case store.OpNEQ:
		cmp, ok := compare(v, c.Value)
		return !ok || cmp != 0
	case store.OpGT:
		cmp, ok := compare(v, c.Value)
		return ok && cmp > 0
	case store.OpGTE:
		cmp, ok := compare(v, c.Value)
		return ok && cmp >= 0
	case store.OpLT:
		cmp, ok := compare(v, c.Value)
		return ok && cmp < 0
	case store.OpLTE:
		cmp, ok := compare(v, c.Value)
		return ok && cmp <= 0
	case store.OpIn:
		for _, cand := range c.Values {
			if cmp, ok := compare(v, cand); ok && cmp == 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func sortRows(rows []store.Row, order []string, idField string) {
	fields := append(append([]string{}, order...), idField)
	sort.SliceStable(rows, func(i, j int) bool {
		for _, f := range fields {
			cmp, ok := compare(rows[i][f], rows[j][f])
			if !ok {
				// Incomparable values fall back to their printed form so
				// ordering stays deterministic.
				cmp = bytes.Compare([]byte(fmt.Sprint(rows[i][f])), []byte(fmt.Sprint(rows[j][f])))
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
}

// normalize widens scalar values so that equal numbers compare equal across
// Go integer kinds, both as map keys and in conditions.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	default:
		return v
	}
}

// compare returns the ordering of two scalar values, or ok=false when they
// are not comparable with each other.
func compare(a, b any) (int, bool) {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmpOrdered(x, y), true
		case float64:
			return cmpOrdered(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return cmpOrdered(x, float64(y)), true
		case float64:
			return cmpOrdered(x, y), true
		}
	case string:
		if y, ok := b.(string); ok {
			return cmpOrdered(x, y), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			if x == y {
				return 0, true
			}
			if !x {
				return -1, true
			}
			return 1, true
		}
	case nil:
		if b == nil {
			return 0, true
		}
	}
	return 0, false
}

func cmpOrdered[T interface {
	~int64 | ~float64 | ~string
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var _ store.Store = (*Store)(nil)
