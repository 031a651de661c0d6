package load_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/load"
	"github.com/relgraph/relgraph/schema"
	"github.com/relgraph/relgraph/schema/rel"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	p, err := load.ParsePath("department.manager")
	require.NoError(t, err)
	assert.Equal(t, load.Path{"department", "manager"}, p)
	assert.Equal(t, "department.manager", p.String())

	_, err = load.ParsePath("")
	assert.ErrorIs(t, err, load.ErrInvalidPlan)

	_, err = load.ParsePath("department..manager")
	assert.ErrorIs(t, err, load.ErrInvalidPlan)
	assert.ErrorContains(t, err, "empty path segment")
}

func TestNewPlan(t *testing.T) {
	t.Parallel()

	p, err := load.NewPlan("department", "department.manager")
	require.NoError(t, err)
	assert.False(t, p.Empty())
	assert.Equal(t, "department,department.manager", p.String())
	require.Len(t, p.Paths(), 2)

	_, err = load.NewPlan("department", "")
	assert.ErrorIs(t, err, load.ErrInvalidPlan)
}

func TestPlanEmpty(t *testing.T) {
	t.Parallel()

	var nilPlan *load.Plan
	assert.True(t, nilPlan.Empty())
	assert.Empty(t, nilPlan.String())
	assert.Nil(t, nilPlan.Paths())

	p, err := load.NewPlan()
	require.NoError(t, err)
	assert.True(t, p.Empty())
}

func TestMustPlan(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { load.MustPlan("department") })
	assert.Panics(t, func() { load.MustPlan("a..b") })
}

func TestPlanValidate(t *testing.T) {
	t.Parallel()

	reg, err := schema.New(
		schema.NewType("department").
			Fields("name").
			Relations(rel.To("employees", "employee")),
		schema.NewType("employee").
			Fields("name", "department_id").
			Relations(rel.From("department", "department").
				Ref("employees").
				Field("department_id").
				Unique()),
	)
	require.NoError(t, err)

	t.Run("valid nested", func(t *testing.T) {
		p := load.MustPlan("employees", "employees.department")
		assert.NoError(t, p.Validate(reg, "department"))
	})

	t.Run("empty plan is valid", func(t *testing.T) {
		var p *load.Plan
		assert.NoError(t, p.Validate(reg, "department"))
	})

	t.Run("unknown segment", func(t *testing.T) {
		p := load.MustPlan("employees.manager")
		err := p.Validate(reg, "department")
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrUnknownRelation)
	})

	t.Run("unknown mid-path segment type", func(t *testing.T) {
		p := load.MustPlan("department.employees.department")
		assert.NoError(t, p.Validate(reg, "employee"))
	})

	t.Run("unregistered root", func(t *testing.T) {
		p := load.MustPlan("employees")
		err := p.Validate(reg, "project")
		require.Error(t, err)
		assert.ErrorIs(t, err, load.ErrInvalidPlan)
	})
}
