package sdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaforge/schemaforge/schema"
)

const sample = `
// user accounts
table Users {
    id    integer pk
    name  text
    email varchar(255) null
    role  text default("member") collate(NOCASE)
}

table Roles {
    id integer pk
}

index ix_users_name on Users (name)
unique index ux_users_email on Users (email)

link UserRoles Users Roles
`

func TestParseModel(t *testing.T) {
	m, err := ParseModel("sample.sfg", sample)
	require.NoError(t, err)

	t.Run("tables in declaration order", func(t *testing.T) {
		tables := m.Tables()
		require.Len(t, tables, 3)
		assert.Equal(t, "Users", tables[0].Name)
		assert.Equal(t, "Roles", tables[1].Name)
		assert.Equal(t, "UserRoles", tables[2].Name)
	})

	t.Run("column attributes", func(t *testing.T) {
		users := m.FindTable("Users")
		require.NotNil(t, users)
		assert.Equal(t, []string{"id"}, users.PrimaryKey)

		email := users.Column("email")
		require.NotNil(t, email)
		assert.Equal(t, "varchar(255)", email.Type)
		assert.True(t, email.Nullable)

		role := users.Column("role")
		require.NotNil(t, role)
		assert.Equal(t, "'member'", role.Default)
		assert.Equal(t, "NOCASE", role.Collate)
	})

	t.Run("indexes attach to their table", func(t *testing.T) {
		users := m.FindTable("Users")
		require.Len(t, users.Indexes, 2)
		assert.Equal(t, "ix_users_name", users.Indexes[0].Name)
		assert.False(t, users.Indexes[0].Unique)
		assert.True(t, users.Indexes[1].Unique)
	})

	t.Run("link resolves to a join table with composite key", func(t *testing.T) {
		require.Len(t, m.Associations, 1)
		join := m.Associations[0].JoinTable
		require.NotNil(t, join)
		assert.Equal(t, "UserRoles", join.Name)
		assert.Equal(t, []string{"Users_id", "Roles_id"}, join.PrimaryKey)
		assert.Equal(t, "integer", join.Columns[0].Type)
	})

	t.Run("link declares a pure association entity set", func(t *testing.T) {
		var found *schema.EntitySet
		for _, e := range m.Entities {
			if e.Name == "UserRoles" {
				found = e
			}
		}
		require.NotNil(t, found)
		assert.True(t, found.AssociationOnly)
		assert.Nil(t, found.Table)
	})

	t.Run("self-link gets distinct join columns", func(t *testing.T) {
		self, err := ParseModel("self.sfg", `
table Users {
    id integer pk
}

link Friends Users Users
`)
		require.NoError(t, err)
		join := self.Associations[0].JoinTable
		require.NotNil(t, join)
		assert.Equal(t, "Users_id_left", join.Columns[0].Name)
		assert.Equal(t, "Users_id_right", join.Columns[1].Name)
		assert.Equal(t, []string{"Users_id_left", "Users_id_right"}, join.PrimaryKey)
	})

	t.Run("parsing is deterministic", func(t *testing.T) {
		again, err := ParseModel("sample.sfg", sample)
		require.NoError(t, err)
		assert.Equal(t, m, again)
	})
}

func TestParseModelErrors(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "duplicate table",
			input:   "table T { id integer pk }\ntable T { id integer pk }",
			wantErr: "duplicate table",
		},
		{
			name:    "duplicate column",
			input:   "table T { id integer pk\nid integer }",
			wantErr: "duplicate column",
		},
		{
			name:    "empty table",
			input:   "table T { }",
			wantErr: "no columns",
		},
		{
			name:    "duplicate index name across tables",
			input:   "table A { id integer pk }\ntable B { id integer pk }\nindex ix_id on A (id)\nindex ix_id on B (id)",
			wantErr: "duplicate index",
		},
		{
			name:    "index on unknown table",
			input:   "index ix on Nope (x)",
			wantErr: "unknown table",
		},
		{
			name:    "index on unknown column",
			input:   "table T { id integer pk }\nindex ix on T (nope)",
			wantErr: "unknown column",
		},
		{
			name:    "link to unknown table",
			input:   "table A { id integer pk }\nlink AB A B",
			wantErr: "unknown table",
		},
		{
			name:    "link requires single-column primary key",
			input:   "table A { x integer pk\ny integer pk }\ntable B { id integer pk }\nlink AB A B",
			wantErr: "single-column primary key",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseModel("test.sfg", tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValueLitSQL(t *testing.T) {
	str := "it's"
	num := "42"
	assert.Equal(t, "'it''s'", (&ValueLit{String: &str}).SQL())
	assert.Equal(t, "42", (&ValueLit{Number: &num}).SQL())
}
