package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupByKey(t *testing.T) {
	t.Parallel()

	type emp struct {
		id   int
		dept any
	}
	emps := []emp{
		{id: 1, dept: 10},
		{id: 2, dept: 20},
		{id: 3, dept: 10},
		{id: 4, dept: nil},
	}
	groups := GroupByKey(emps, func(e emp) any { return e.dept })

	assert.Len(t, groups, 3)
	assert.Equal(t, []emp{{id: 1, dept: 10}, {id: 3, dept: 10}}, groups[10])
	assert.Equal(t, []emp{{id: 2, dept: 20}}, groups[20])
	assert.Equal(t, []emp{{id: 4, dept: nil}}, groups[nil], "nil is a regular key")
}

func TestGroupByKeyEmpty(t *testing.T) {
	t.Parallel()

	groups := GroupByKey(nil, func(v int) int { return v })
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
