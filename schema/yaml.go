package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/relgraph/relgraph/schema/rel"
)

// yamlDoc mirrors the YAML registry definition format:
//
//	types:
//	  - name: employee
//	    id: id
//	    fields: [name, department_id]
//	    relations:
//	      - name: department
//	        target: department
//	        kind: one
//	        ref: employees
//	        foreign_key: department_id
//	  - name: department
//	    fields: [name]
//	    relations:
//	      - name: employees
//	        target: employee
//	        kind: many
//	        inverse: true
//	        ref: department
type yamlDoc struct {
	Types []yamlType `yaml:"types"`
}

type yamlType struct {
	Name      string         `yaml:"name"`
	ID        string         `yaml:"id"`
	Fields    []string       `yaml:"fields"`
	Relations []yamlRelation `yaml:"relations"`
}

type yamlRelation struct {
	Name       string `yaml:"name"`
	Target     string `yaml:"target"`
	Kind       string `yaml:"kind"`
	Ref        string `yaml:"ref"`
	ForeignKey string `yaml:"foreign_key"`
	Inverse    bool   `yaml:"inverse"`
	Comment    string `yaml:"comment"`
}

// FromYAML builds a validated Registry from a YAML definition document.
// This is the configuration-time population path; the returned registry is
// read-only like any other.
func FromYAML(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: reading yaml definition: %w", err)
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: decoding yaml definition: %w", err)
	}
	if len(doc.Types) == 0 {
		return nil, fmt.Errorf("schema: yaml definition declares no types")
	}
	types := make([]*Type, 0, len(doc.Types))
	for _, yt := range doc.Types {
		t := NewType(yt.Name)
		if yt.ID != "" {
			t.ID(yt.ID)
		}
		t.Fields(yt.Fields...)
		for _, yr := range yt.Relations {
			b, err := yamlBuilder(yt.Name, yr)
			if err != nil {
				return nil, err
			}
			t.Relations(b)
		}
		types = append(types, t)
	}
	return New(types...)
}

func yamlBuilder(typ string, yr yamlRelation) (*rel.Builder, error) {
	var b *rel.Builder
	if yr.Inverse {
		b = rel.From(yr.Name, yr.Target)
	} else {
		b = rel.To(yr.Name, yr.Target)
	}
	switch yr.Kind {
	case "one":
		b.Unique()
	case "many", "":
	default:
		return nil, fmt.Errorf("schema: relation %q on type %q: unknown kind %q", yr.Name, typ, yr.Kind)
	}
	if yr.Ref != "" {
		b.Ref(yr.Ref)
	}
	if yr.ForeignKey != "" {
		b.Field(yr.ForeignKey)
	}
	if yr.Comment != "" {
		b.Comment(yr.Comment)
	}
	return b, nil
}
