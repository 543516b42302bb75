package sqlgen

import (
	"fmt"
	"strings"

	"github.com/schemaforge/schemaforge/schema"
)

// BuildCreateTable returns the CREATE TABLE statement for a single table.
func BuildCreateTable(d Dialect, t *schema.Table) *CreateTableStatement {
	defs := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		defs = append(defs, columnDef(d, c))
	}
	if len(t.PrimaryKey) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(d.QuoteIdents(t.PrimaryKey), ", ")))
	}
	return &CreateTableStatement{
		Template: fmt.Sprintf("CREATE TABLE {table-name} (%s);", strings.Join(defs, ", ")),
		Name:     d.QuoteIdent(t.Name),
	}
}

func columnDef(d Dialect, c *schema.Column) string {
	var b strings.Builder
	b.WriteString(d.QuoteIdent(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type)
	if c.Collate != "" {
		b.WriteString(" COLLATE ")
		b.WriteString(c.Collate)
	}
	if c.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	return b.String()
}

// BuildCreateIndex returns the CREATE INDEX statement for one index.
func BuildCreateIndex(d Dialect, ix *schema.Index) *CreateIndexStatement {
	kw := "INDEX"
	if ix.Unique {
		kw = "UNIQUE INDEX"
	}
	return &CreateIndexStatement{
		Template: fmt.Sprintf("CREATE %s {index-name} ON %s (%s);",
			kw, d.QuoteIdent(ix.Table), strings.Join(d.QuoteIdents(ix.Columns), ", ")),
		Name: d.QuoteIdent(ix.Name),
	}
}

// BuildTableIndexes returns the per-table index collection, in declaration
// order.
func BuildTableIndexes(d Dialect, t *schema.Table) *Batch {
	b := NewBatch()
	for _, ix := range t.Indexes {
		b.Add(BuildCreateIndex(d, ix))
	}
	return b
}

// BuildDropTable returns a DROP TABLE for a raw table name.
func BuildDropTable(d Dialect, name string) *DropTableStatement {
	return &DropTableStatement{Name: d.QuoteIdent(name)}
}

// BuildDropIndex returns a DROP INDEX for a raw index name. Index names are
// escaped with the same rules as table names.
func BuildDropIndex(d Dialect, name string) *DropIndexStatement {
	return &DropIndexStatement{Name: d.QuoteIdent(name)}
}

// BuildSchema emits create-table plus create-index statements for the whole
// model, in model order. Pure association entity sets are skipped; their
// join tables are emitted from the model's association list afterwards.
func BuildSchema(d Dialect, m *schema.Model) *Batch {
	return BuildSchemaFor(d, m, nil)
}

// BuildSchemaFor is the restricted schema builder: when allow is non-nil,
// only tables whose name is in the allow set are emitted. This is how an
// upgrade produces DDL for exactly the tables that need recreation.
func BuildSchemaFor(d Dialect, m *schema.Model, allow map[string]bool) *Batch {
	out := NewBatch()
	emit := func(t *schema.Table) {
		if t == nil {
			return
		}
		if allow != nil && !allow[t.Name] {
			return
		}
		out.Add(BuildCreateTable(d, t))
		out.Add(BuildTableIndexes(d, t).Statements()...)
	}
	for _, e := range m.Entities {
		if e.AssociationOnly {
			continue
		}
		emit(e.Table)
	}
	for _, a := range m.Associations {
		emit(a.JoinTable)
	}
	return out
}

// BuildIndexesFor emits standalone CREATE INDEX statements for the named
// indexes, skipping any index whose owning table is in skipTables (those are
// regenerated with their table). Unknown index names are ignored.
func BuildIndexesFor(d Dialect, m *schema.Model, names, skipTables map[string]bool) *Batch {
	out := NewBatch()
	for _, ix := range m.Indexes() {
		if !names[ix.Name] {
			continue
		}
		if skipTables != nil && skipTables[ix.Table] {
			continue
		}
		out.Add(BuildCreateIndex(d, ix))
	}
	return out
}
