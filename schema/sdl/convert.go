package sdl

import (
	"fmt"

	"github.com/schemaforge/schemaforge/schema"
)

// ToModel resolves a parse tree into a relational model: tables in
// declaration order, indexes attached to their owning tables, links resolved
// to join tables held by the model's association list.
func ToModel(f *File) (*schema.Model, error) {
	m := &schema.Model{}
	tables := make(map[string]*schema.Table)
	indexes := make(map[string]bool)

	for _, d := range f.Decls {
		switch {
		case d.Table != nil:
			t, err := convertTable(d.Table)
			if err != nil {
				return nil, err
			}
			if tables[t.Name] != nil {
				return nil, fmt.Errorf("%s: duplicate table %q", d.Table.Pos, t.Name)
			}
			tables[t.Name] = t
			m.Entities = append(m.Entities, &schema.EntitySet{Name: t.Name, Table: t})

		case d.Index != nil:
			ix, err := convertIndex(d.Index, tables)
			if err != nil {
				return nil, err
			}
			// Index names are global: fingerprints key on (name, kind), and
			// most databases scope index names per schema, not per table.
			if indexes[ix.Name] {
				return nil, fmt.Errorf("%s: duplicate index %q", d.Index.Pos, ix.Name)
			}
			indexes[ix.Name] = true
			tables[ix.Table].Indexes = append(tables[ix.Table].Indexes, ix)

		case d.Link != nil:
			a, err := convertLink(d.Link, tables)
			if err != nil {
				return nil, err
			}
			m.Entities = append(m.Entities, &schema.EntitySet{Name: a.Name, AssociationOnly: true})
			m.Associations = append(m.Associations, a)
		}
	}
	return m, nil
}

// ParseModel is the one-call model source: parse and resolve in one step.
func ParseModel(filename, content string) (*schema.Model, error) {
	f, err := ParseString(filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return ToModel(f)
}

func convertTable(decl *TableDecl) (*schema.Table, error) {
	t := &schema.Table{Name: decl.Name}
	for _, c := range decl.Columns {
		if t.Column(c.Name) != nil {
			return nil, fmt.Errorf("%s: duplicate column %q in table %q", c.Pos, c.Name, decl.Name)
		}
		col := &schema.Column{Name: c.Name, Type: c.SQLType()}
		for _, a := range c.Attrs {
			switch {
			case a.PK:
				t.PrimaryKey = append(t.PrimaryKey, c.Name)
			case a.Null:
				col.Nullable = true
			case a.Default != nil:
				col.Default = a.Default.SQL()
			case a.Collate != nil:
				col.Collate = *a.Collate
			}
		}
		t.Columns = append(t.Columns, col)
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("%s: table %q has no columns", decl.Pos, decl.Name)
	}
	return t, nil
}

func convertIndex(decl *IndexDecl, tables map[string]*schema.Table) (*schema.Index, error) {
	t := tables[decl.Table]
	if t == nil {
		return nil, fmt.Errorf("%s: index %q references unknown table %q", decl.Pos, decl.Name, decl.Table)
	}
	for _, col := range decl.Columns {
		if t.Column(col) == nil {
			return nil, fmt.Errorf("%s: index %q references unknown column %q.%q", decl.Pos, decl.Name, decl.Table, col)
		}
	}
	return &schema.Index{Name: decl.Name, Table: decl.Table, Columns: decl.Columns, Unique: decl.Unique}, nil
}

func convertLink(decl *LinkDecl, tables map[string]*schema.Table) (*schema.Association, error) {
	left := tables[decl.Left]
	right := tables[decl.Right]
	if left == nil {
		return nil, fmt.Errorf("%s: link %q references unknown table %q", decl.Pos, decl.Name, decl.Left)
	}
	if right == nil {
		return nil, fmt.Errorf("%s: link %q references unknown table %q", decl.Pos, decl.Name, decl.Right)
	}

	lcol, err := keyColumn(left, decl)
	if err != nil {
		return nil, err
	}
	rcol, err := keyColumn(right, decl)
	if err != nil {
		return nil, err
	}

	lname := left.Name + "_" + lcol.Name
	rname := right.Name + "_" + rcol.Name
	if lname == rname {
		// A self-link needs two distinct columns over the same key.
		lname += "_left"
		rname += "_right"
	}

	join := &schema.Table{
		Name: decl.Name,
		Columns: []*schema.Column{
			{Name: lname, Type: lcol.Type},
			{Name: rname, Type: rcol.Type},
		},
	}
	join.PrimaryKey = []string{join.Columns[0].Name, join.Columns[1].Name}

	return &schema.Association{
		Name:      decl.Name,
		Left:      left.Name,
		Right:     right.Name,
		JoinTable: join,
	}, nil
}

func keyColumn(t *schema.Table, decl *LinkDecl) (*schema.Column, error) {
	if len(t.PrimaryKey) != 1 {
		return nil, fmt.Errorf("%s: link %q requires a single-column primary key on %q", decl.Pos, decl.Name, t.Name)
	}
	return t.Column(t.PrimaryKey[0]), nil
}
