package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type literal string

func (l literal) Render() string { return string(l) }

func TestBatchRender(t *testing.T) {
	t.Run("joins children with CRLF in insertion order", func(t *testing.T) {
		b := NewBatch(literal("A"), literal("B"))
		assert.Equal(t, "A\r\nB", b.Render())
	})

	t.Run("empty batch renders empty string", func(t *testing.T) {
		assert.Equal(t, "", NewBatch().Render())
	})

	t.Run("single child renders without separator", func(t *testing.T) {
		assert.Equal(t, "A", NewBatch(literal("A")).Render())
	})

	t.Run("Add appends in order", func(t *testing.T) {
		b := NewBatch(literal("A"))
		b.Add(literal("B"), literal("C"))
		assert.Equal(t, "A\r\nB\r\nC", b.Render())
		assert.Equal(t, 3, b.Len())
	})
}

func TestLeafStatements(t *testing.T) {
	t.Run("create table substitutes the escaped name verbatim", func(t *testing.T) {
		s := &CreateTableStatement{
			Template: `CREATE TABLE {table-name} ("id" integer NOT NULL);`,
			Name:     `"Users"`,
		}
		assert.Equal(t, `CREATE TABLE "Users" ("id" integer NOT NULL);`, s.Render())
	})

	t.Run("create index substitutes the index placeholder", func(t *testing.T) {
		s := &CreateIndexStatement{
			Template: `CREATE INDEX {index-name} ON "Users" ("name");`,
			Name:     `"ix_name"`,
		}
		assert.Equal(t, `CREATE INDEX "ix_name" ON "Users" ("name");`, s.Render())
	})

	t.Run("drop statements use fixed templates", func(t *testing.T) {
		assert.Equal(t, `DROP TABLE IF EXISTS "Users";`, (&DropTableStatement{Name: `"Users"`}).Render())
		assert.Equal(t, `DROP INDEX IF EXISTS "ix_name";`, (&DropIndexStatement{Name: `"ix_name"`}).Render())
	})

	t.Run("rendering is deterministic", func(t *testing.T) {
		s := &DropTableStatement{Name: `"T"`}
		assert.Equal(t, s.Render(), s.Render())
	})
}
