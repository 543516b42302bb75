// Package sqlgen renders DDL statements for a relational model. Statements
// are pure values: rendering has no side effects and is deterministic for
// identical inputs, which the fingerprint engine relies on.
package sqlgen

import "strings"

// Sep joins the rendered children of a Batch.
const Sep = "\r\n"

const (
	tableNamePlaceholder = "{table-name}"
	indexNamePlaceholder = "{index-name}"

	// IF EXISTS keeps the drop phase safe to re-run after a partial
	// upgrade, and tolerant of indexes that vanished with their table.
	dropTableTemplate = "DROP TABLE IF EXISTS {table-name};"
	dropIndexTemplate = "DROP INDEX IF EXISTS {index-name};"
)

// Statement is one renderable unit of DDL text.
type Statement interface {
	Render() string
}

// Batch is an ordered collection of statements. Insertion order determines
// emitted SQL order. An empty batch renders as the empty string.
type Batch struct {
	children []Statement
}

func NewBatch(stmts ...Statement) *Batch {
	return &Batch{children: stmts}
}

func (b *Batch) Add(stmts ...Statement) {
	b.children = append(b.children, stmts...)
}

func (b *Batch) Len() int { return len(b.children) }

// Statements returns the child statements in order.
func (b *Batch) Statements() []Statement { return b.children }

func (b *Batch) Render() string {
	parts := make([]string, len(b.children))
	for i, c := range b.children {
		parts[i] = c.Render()
	}
	return strings.Join(parts, Sep)
}

// CreateTableStatement renders a CREATE TABLE. The template carries the full
// column-list SQL; the placeholder is substituted with the already-escaped
// table name. The statement itself performs no escaping.
type CreateTableStatement struct {
	Template string
	Name     string
}

func (s *CreateTableStatement) Render() string {
	return strings.Replace(s.Template, tableNamePlaceholder, s.Name, 1)
}

// CreateIndexStatement renders a CREATE INDEX.
type CreateIndexStatement struct {
	Template string
	Name     string
}

func (s *CreateIndexStatement) Render() string {
	return strings.Replace(s.Template, indexNamePlaceholder, s.Name, 1)
}

// DropTableStatement renders a DROP TABLE for an already-escaped name.
type DropTableStatement struct {
	Name string
}

func (s *DropTableStatement) Render() string {
	return strings.Replace(dropTableTemplate, tableNamePlaceholder, s.Name, 1)
}

// DropIndexStatement renders a DROP INDEX for an already-escaped name.
type DropIndexStatement struct {
	Name string
}

func (s *DropIndexStatement) Render() string {
	return strings.Replace(dropIndexTemplate, indexNamePlaceholder, s.Name, 1)
}
