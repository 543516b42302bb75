// Package schema defines the relational model consumed by the DDL builders
// and the fingerprint engine. A model is produced once per operation by a
// model source (for example the SDL parser in schema/sdl) and is treated as
// read-only for the duration of that operation.
package schema

import "fmt"

// ObjectKind distinguishes tables from indexes in fingerprint keys.
type ObjectKind int

const (
	KindTable ObjectKind = iota
	KindIndex
)

func (k ObjectKind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindIndex:
		return "index"
	default:
		return fmt.Sprintf("ObjectKind(%d)", int(k))
	}
}

// ObjectKey identifies a schema object by name and kind. Keys compare by
// value, so a table and an index may share a name without colliding.
type ObjectKey struct {
	Name string
	Kind ObjectKind
}

func TableKey(name string) ObjectKey { return ObjectKey{Name: name, Kind: KindTable} }
func IndexKey(name string) ObjectKey { return ObjectKey{Name: name, Kind: KindIndex} }

func (k ObjectKey) String() string {
	return k.Kind.String() + ":" + k.Name
}

// Column describes one table column.
type Column struct {
	Name     string
	Type     string // SQL type, emitted verbatim
	Nullable bool
	Default  string // literal default expression, empty when absent
	Collate  string // collation name, empty when absent
}

// Table describes one physical table.
type Table struct {
	Name       string
	Columns    []*Column
	PrimaryKey []string // column names, in key order
	Indexes    []*Index // indexes owned by this table, in declaration order
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Index describes one secondary index.
type Index struct {
	Name    string
	Table   string // owning table name
	Columns []string
	Unique  bool
}

// EntitySet is one entry of the model's entity list. A pure many-to-many
// association appears here with AssociationOnly set and no table of its own;
// its storage is the join table held by the model's association list.
type EntitySet struct {
	Name            string
	Table           *Table
	AssociationOnly bool
}

// Association is a resolved many-to-many link. The join table is built by
// the model source, never by the DDL engine.
type Association struct {
	Name      string
	Left      string
	Right     string
	JoinTable *Table
}

// Model is the full relational model. Slice order is declaration order and
// is significant: DDL emission and fingerprinting follow it.
type Model struct {
	Entities     []*EntitySet
	Associations []*Association
}

// Tables returns every physical table in emission order: entity tables first,
// then association join tables.
func (m *Model) Tables() []*Table {
	var out []*Table
	for _, e := range m.Entities {
		if e.AssociationOnly || e.Table == nil {
			continue
		}
		out = append(out, e.Table)
	}
	for _, a := range m.Associations {
		if a.JoinTable != nil {
			out = append(out, a.JoinTable)
		}
	}
	return out
}

// Indexes returns every index in the model, grouped by owning table in
// emission order.
func (m *Model) Indexes() []*Index {
	var out []*Index
	for _, t := range m.Tables() {
		out = append(out, t.Indexes...)
	}
	return out
}

// FindTable returns the named table, or nil.
func (m *Model) FindTable(name string) *Table {
	for _, t := range m.Tables() {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// FindIndex returns the named index, or nil.
func (m *Model) FindIndex(name string) *Index {
	for _, ix := range m.Indexes() {
		if ix.Name == name {
			return ix
		}
	}
	return nil
}
