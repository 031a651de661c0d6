package rel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relgraph/relgraph/schema/rel"
)

func TestBuilder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		b    *rel.Builder
		want rel.Descriptor
	}{
		{
			name: "to many",
			b:    rel.To("employees", "employee"),
			want: rel.Descriptor{Name: "employees", Type: "employee"},
		},
		{
			name: "to one with field",
			b: rel.To("department", "department").
				Field("department_id").
				Unique(),
			want: rel.Descriptor{
				Name:   "department",
				Type:   "department",
				Field:  "department_id",
				Unique: true,
			},
		},
		{
			name: "from with ref",
			b: rel.From("department", "department").
				Ref("employees").
				Field("department_id").
				Unique(),
			want: rel.Descriptor{
				Name:    "department",
				Type:    "department",
				Field:   "department_id",
				RefName: "employees",
				Unique:  true,
				Inverse: true,
			},
		},
		{
			name: "comment",
			b:    rel.To("reports", "employee").Comment("direct reports"),
			want: rel.Descriptor{
				Name:    "reports",
				Type:    "employee",
				Comment: "direct reports",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, *tt.b.Descriptor())
		})
	}
}
