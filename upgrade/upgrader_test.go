package upgrade

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaforge/schemaforge/plan"
	"github.com/schemaforge/schemaforge/schema"
	"github.com/schemaforge/schemaforge/sqlgen"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func usersModel() *schema.Model {
	users := &schema.Table{
		Name: "Users",
		Columns: []*schema.Column{
			{Name: "id", Type: "integer"},
			{Name: "name", Type: "text", Nullable: true},
		},
		PrimaryKey: []string{"id"},
		Indexes: []*schema.Index{
			{Name: "ix_name", Table: "Users", Columns: []string{"name"}},
		},
	}
	return &schema.Model{Entities: []*schema.EntitySet{{Name: "Users", Table: users}}}
}

func tableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	return names
}

func TestNew(t *testing.T) {
	t.Run("rejects nil database", func(t *testing.T) {
		_, err := New(nil, sqlgen.ANSI)
		assert.ErrorIs(t, err, ErrNilDB)
	})

	t.Run("rejects nil transaction", func(t *testing.T) {
		_, err := NewTx(nil, sqlgen.ANSI)
		assert.ErrorIs(t, err, ErrNilDB)
	})
}

func TestPrepareBatch(t *testing.T) {
	u, err := New(openDB(t), sqlgen.ANSI)
	require.NoError(t, err)

	t.Run("tables drop before indexes", func(t *testing.T) {
		p := plan.New()
		p.TablesToDrop["Users"] = true
		p.IndexesToDrop["ix_orphan"] = true

		lines := strings.Split(u.PrepareBatch(nil, p).Render(), "\r\n")
		require.Len(t, lines, 2)
		assert.Equal(t, `DROP TABLE IF EXISTS "Users";`, lines[0])
		assert.Equal(t, `DROP INDEX IF EXISTS "ix_orphan";`, lines[1])
	})

	t.Run("elides index drops that vanish with their table", func(t *testing.T) {
		m := usersModel()
		p := plan.New()
		p.TablesToDrop["Users"] = true
		p.IndexesToDrop["ix_name"] = true

		assert.Equal(t, `DROP TABLE IF EXISTS "Users";`, u.PrepareBatch(m, p).Render())
	})

	t.Run("keeps index drops the model cannot resolve", func(t *testing.T) {
		m := usersModel()
		p := plan.New()
		p.IndexesToDrop["ix_gone"] = true

		assert.Equal(t, `DROP INDEX IF EXISTS "ix_gone";`, u.PrepareBatch(m, p).Render())
	})
}

func TestFinalizeBatch(t *testing.T) {
	u, err := New(openDB(t), sqlgen.ANSI)
	require.NoError(t, err)
	m := usersModel()

	t.Run("created table brings its indexes", func(t *testing.T) {
		p := plan.New()
		p.TablesToCreate["Users"] = true

		lines := strings.Split(u.FinalizeBatch(m, p).Render(), "\r\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], `CREATE TABLE "Users"`)
		assert.Contains(t, lines[1], `CREATE INDEX "ix_name"`)
	})

	t.Run("independent index create without table rebuild", func(t *testing.T) {
		p := plan.New()
		p.IndexesToCreate["ix_name"] = true

		assert.Equal(t, `CREATE INDEX "ix_name" ON "Users" ("name");`, u.FinalizeBatch(m, p).Render())
	})

	t.Run("index riding along with its table is not duplicated", func(t *testing.T) {
		p := plan.New()
		p.TablesToCreate["Users"] = true
		p.IndexesToCreate["ix_name"] = true

		assert.Equal(t, 2, u.FinalizeBatch(m, p).Len())
	})
}

func TestPrepareAndFinalize(t *testing.T) {
	ctx := context.Background()

	t.Run("empty plan executes nothing", func(t *testing.T) {
		db := openDB(t)
		u, err := New(db, sqlgen.ANSI)
		require.NoError(t, err)

		require.NoError(t, u.Prepare(ctx, usersModel(), plan.New()))
		require.NoError(t, u.Finalize(ctx, usersModel(), plan.New()))
		assert.Empty(t, tableNames(t, db))
	})

	t.Run("finalize creates planned tables and indexes", func(t *testing.T) {
		db := openDB(t)
		u, err := New(db, sqlgen.ANSI)
		require.NoError(t, err)

		p := plan.New()
		p.TablesToCreate["Users"] = true
		require.NoError(t, u.Finalize(ctx, usersModel(), p))

		assert.Equal(t, []string{"Users"}, tableNames(t, db))
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'ix_name'`).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("prepare drops planned tables", func(t *testing.T) {
		db := openDB(t)
		_, err := db.Exec(`CREATE TABLE "Users" ("id" integer NOT NULL)`)
		require.NoError(t, err)

		u, err := New(db, sqlgen.ANSI)
		require.NoError(t, err)
		p := plan.New()
		p.TablesToDrop["Users"] = true
		require.NoError(t, u.Prepare(ctx, usersModel(), p))
		assert.Empty(t, tableNames(t, db))
	})

	t.Run("a failing phase rolls back its own transaction", func(t *testing.T) {
		db := openDB(t)
		u, err := New(db, sqlgen.ANSI)
		require.NoError(t, err)

		// Two tables, the second with a duplicate column to force a failure.
		m := usersModel()
		m.Entities = append(m.Entities, &schema.EntitySet{
			Name: "Broken",
			Table: &schema.Table{
				Name: "Broken",
				Columns: []*schema.Column{
					{Name: "x", Type: "integer"},
					{Name: "x", Type: "integer"},
				},
			},
		})
		p := plan.New()
		p.TablesToCreate["Users"] = true
		p.TablesToCreate["Broken"] = true

		err = u.Finalize(ctx, m, p)
		require.Error(t, err)
		assert.Empty(t, tableNames(t, db))
	})

	t.Run("runs inside a caller-owned transaction when given one", func(t *testing.T) {
		db := openDB(t)
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		u, err := NewTx(tx, sqlgen.ANSI)
		require.NoError(t, err)
		p := plan.New()
		p.TablesToCreate["Users"] = true
		require.NoError(t, u.Finalize(ctx, usersModel(), p))

		// Not visible until the caller commits.
		require.NoError(t, tx.Rollback())
		assert.Empty(t, tableNames(t, db))
	})

	t.Run("nil arguments are rejected before execution", func(t *testing.T) {
		u, err := New(openDB(t), sqlgen.ANSI)
		require.NoError(t, err)

		assert.ErrorIs(t, u.Finalize(ctx, nil, plan.New()), ErrNilModel)
		assert.ErrorIs(t, u.Finalize(ctx, usersModel(), nil), ErrNilPlan)
		assert.ErrorIs(t, u.Prepare(ctx, nil, plan.New()), ErrNilModel)
		assert.ErrorIs(t, u.Prepare(ctx, usersModel(), nil), ErrNilPlan)
	})
}
