package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/schema"
	"github.com/relgraph/relgraph/schema/rel"
)

func hrTypes() []*schema.Type {
	return []*schema.Type{
		schema.NewType("department").
			Fields("name").
			Relations(
				rel.To("employees", "employee"),
			),
		schema.NewType("employee").
			Fields("name", "department_id", "manager_id").
			Relations(
				rel.From("department", "department").
					Ref("employees").
					Field("department_id").
					Unique(),
				rel.From("manager", "employee").
					Ref("reports").
					Field("manager_id").
					Unique().
					Comment("self-referential"),
				rel.To("reports", "employee"),
			),
	}
}

func TestRegistryBuild(t *testing.T) {
	t.Parallel()

	reg, err := schema.New(hrTypes()...)
	require.NoError(t, err)
	assert.Equal(t, []string{"department", "employee"}, reg.Types())

	ti, err := reg.Type("employee")
	require.NoError(t, err)
	assert.Equal(t, "employee", ti.Name())
	assert.Equal(t, "id", ti.IDField())
	assert.True(t, ti.HasField("department_id"))
	assert.True(t, ti.HasField("id"), "the primary key is always a field")
	assert.False(t, ti.HasField("salary"))
	assert.Equal(t, []string{"department_id", "id", "manager_id", "name"}, ti.Fields())

	rels := ti.Relations()
	require.Len(t, rels, 3)
	assert.Equal(t, "department", rels[0].Name)
	assert.Equal(t, "manager", rels[1].Name)
	assert.Equal(t, "reports", rels[2].Name)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	reg, err := schema.New(hrTypes()...)
	require.NoError(t, err)

	t.Run("one", func(t *testing.T) {
		r, err := reg.Describe("employee", "department")
		require.NoError(t, err)
		assert.Equal(t, "employee", r.Owner)
		assert.Equal(t, "department", r.Target)
		assert.Equal(t, schema.One, r.Cardinality)
		assert.Equal(t, "department_id", r.ForeignKey)
	})

	t.Run("many through inverse", func(t *testing.T) {
		r, err := reg.Describe("department", "employees")
		require.NoError(t, err)
		assert.Equal(t, "employee", r.Target)
		assert.Equal(t, schema.Many, r.Cardinality)
		assert.Equal(t, "department_id", r.ForeignKey,
			"collection relations read through the inverse side's key")
	})

	t.Run("self-referential", func(t *testing.T) {
		r, err := reg.Describe("employee", "reports")
		require.NoError(t, err)
		assert.Equal(t, "employee", r.Target)
		assert.Equal(t, schema.Many, r.Cardinality)
		assert.Equal(t, "manager_id", r.ForeignKey)

		mgr, err := reg.Describe("employee", "manager")
		require.NoError(t, err)
		assert.Equal(t, schema.One, mgr.Cardinality)
		assert.Equal(t, "self-referential", mgr.Comment)
	})

	t.Run("unknown relation", func(t *testing.T) {
		_, err := reg.Describe("employee", "projects")
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrUnknownRelation)
		var ue *schema.UnknownRelationError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "employee", ue.Type)
		assert.Equal(t, "projects", ue.Name)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := reg.Describe("project", "tasks")
		assert.ErrorIs(t, err, schema.ErrUnknownType)
		_, err = reg.Type("project")
		assert.ErrorIs(t, err, schema.ErrUnknownType)
	})
}

func TestRegistryCustomIDField(t *testing.T) {
	t.Parallel()

	reg, err := schema.New(
		schema.NewType("account").ID("account_id").Fields("email"),
	)
	require.NoError(t, err)
	ti, err := reg.Type("account")
	require.NoError(t, err)
	assert.Equal(t, "account_id", ti.IDField())
	assert.True(t, ti.HasField("account_id"))
}

func TestRegistryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		types   []*schema.Type
		wantErr string
	}{
		{
			name:    "empty type name",
			types:   []*schema.Type{schema.NewType("")},
			wantErr: "empty name",
		},
		{
			name: "duplicate type",
			types: []*schema.Type{
				schema.NewType("employee"),
				schema.NewType("employee"),
			},
			wantErr: `duplicate entity type "employee"`,
		},
		{
			name: "duplicate field",
			types: []*schema.Type{
				schema.NewType("employee").Fields("name", "name"),
			},
			wantErr: `duplicate field "name"`,
		},
		{
			name: "duplicate relation",
			types: []*schema.Type{
				schema.NewType("department").Fields("name"),
				schema.NewType("employee").Fields("department_id").Relations(
					rel.To("department", "department").Field("department_id").Unique(),
					rel.To("department", "department").Field("department_id").Unique(),
				),
			},
			wantErr: `duplicate relation "department"`,
		},
		{
			name: "relation collides with field",
			types: []*schema.Type{
				schema.NewType("department"),
				schema.NewType("employee").Fields("department", "department_id").Relations(
					rel.To("department", "department").Field("department_id").Unique(),
				),
			},
			wantErr: "collides with a field",
		},
		{
			name: "unknown target type",
			types: []*schema.Type{
				schema.NewType("employee").Fields("team_id").Relations(
					rel.To("team", "team").Field("team_id").Unique(),
				),
			},
			wantErr: "unknown entity type",
		},
		{
			name: "single-valued without key field",
			types: []*schema.Type{
				schema.NewType("department"),
				schema.NewType("employee").Relations(
					rel.To("department", "department").Unique(),
				),
			},
			wantErr: "requires a foreign-key field",
		},
		{
			name: "single-valued key field undeclared",
			types: []*schema.Type{
				schema.NewType("department"),
				schema.NewType("employee").Fields("name").Relations(
					rel.To("department", "department").Field("department_id").Unique(),
				),
			},
			wantErr: `foreign-key field "department_id" is not declared`,
		},
		{
			name: "collection without inverse",
			types: []*schema.Type{
				schema.NewType("department").Relations(
					rel.To("employees", "employee"),
				),
				schema.NewType("employee").Fields("department_id"),
			},
			wantErr: "no inverse single-valued relation",
		},
		{
			name: "inverse ref mismatch",
			types: []*schema.Type{
				schema.NewType("department").Relations(
					rel.To("employees", "employee"),
				),
				schema.NewType("employee").Fields("department_id").Relations(
					rel.From("department", "department").
						Ref("staff").
						Field("department_id").
						Unique(),
				),
			},
			wantErr: "no inverse single-valued relation",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := schema.New(tt.types...)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

// Both pairing directions of a relation must link: the forward side unique
// with an inverse collection ref, and the inverse side unique with a forward
// collection on the target.
func TestRegistryPairingDirections(t *testing.T) {
	t.Parallel()

	t.Run("forward unique inverse many", func(t *testing.T) {
		t.Parallel()
		reg, err := schema.New(
			schema.NewType("department").Relations(
				rel.From("employees", "employee").Ref("department"),
			),
			schema.NewType("employee").Fields("department_id").Relations(
				rel.To("department", "department").Field("department_id").Unique(),
			),
		)
		require.NoError(t, err)
		r, err := reg.Describe("department", "employees")
		require.NoError(t, err)
		assert.Equal(t, schema.Many, r.Cardinality)
		assert.Equal(t, "department_id", r.ForeignKey)
	})

	t.Run("forward many inverse unique", func(t *testing.T) {
		t.Parallel()
		reg, err := schema.New(
			schema.NewType("department").Relations(
				rel.To("employees", "employee"),
			),
			schema.NewType("employee").Fields("department_id").Relations(
				rel.From("department", "department").
					Ref("employees").
					Field("department_id").
					Unique(),
			),
		)
		require.NoError(t, err)
		r, err := reg.Describe("department", "employees")
		require.NoError(t, err)
		assert.Equal(t, schema.Many, r.Cardinality)
		assert.Equal(t, "department_id", r.ForeignKey)
	})
}
