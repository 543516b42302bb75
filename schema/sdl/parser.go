// Package sdl parses schemaforge definition files into a relational model.
// The language declares tables, secondary indexes, and many-to-many links:
//
//	table Users {
//	    id   integer pk
//	    name text null collate(NOCASE)
//	}
//
//	index ix_name on Users (name)
//
//	link UserRoles Users Roles
//
// Parsing is deterministic: the resulting model preserves declaration order,
// which the DDL and fingerprint engines depend on.
package sdl

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// File is the raw parse tree for one schema definition file.
type File struct {
	Pos   lexer.Position
	Decls []*Decl `parser:"@@*"`
}

// Decl is a union of the top-level declarations.
type Decl struct {
	Table *TableDecl `parser:"  @@"`
	Index *IndexDecl `parser:"| @@"`
	Link  *LinkDecl  `parser:"| @@"`
}

// TableDecl declares one table with its columns.
type TableDecl struct {
	Pos     lexer.Position
	Name    string        `parser:"\"table\" @Ident \"{\""`
	Columns []*ColumnDecl `parser:"@@* \"}\""`
}

// ColumnDecl declares one column: name, SQL type, optional attributes.
type ColumnDecl struct {
	Pos   lexer.Position
	Name  string  `parser:"@Ident"`
	Type  string  `parser:"@Ident"`
	Size  *string `parser:"( \"(\" @Number \")\" )?"`
	Attrs []*Attr `parser:"@@*"`
}

// SQLType returns the column's SQL type with any size suffix.
func (c *ColumnDecl) SQLType() string {
	if c.Size != nil {
		return c.Type + "(" + *c.Size + ")"
	}
	return c.Type
}

// Attr is one column attribute.
type Attr struct {
	PK      bool      `parser:"  @\"pk\""`
	Null    bool      `parser:"| @\"null\""`
	Default *ValueLit `parser:"| \"default\" \"(\" @@ \")\""`
	Collate *string   `parser:"| \"collate\" \"(\" @Ident \")\""`
}

// ValueLit is a default-value literal.
type ValueLit struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
}

// SQL renders the literal as a SQL default expression. Strings become
// single-quoted literals; numbers and bare identifiers pass through.
func (v *ValueLit) SQL() string {
	switch {
	case v.String != nil:
		return "'" + strings.ReplaceAll(*v.String, "'", "''") + "'"
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// IndexDecl declares a secondary index on a previously declared table.
type IndexDecl struct {
	Pos     lexer.Position
	Unique  bool     `parser:"@\"unique\"? \"index\""`
	Name    string   `parser:"@Ident \"on\""`
	Table   string   `parser:"@Ident"`
	Columns []string `parser:"\"(\" @Ident (\",\" @Ident)* \")\""`
}

// LinkDecl declares a many-to-many association between two tables. The
// model source resolves it to a join table; the declaration itself carries
// no storage.
type LinkDecl struct {
	Pos   lexer.Position
	Name  string `parser:"\"link\" @Ident"`
	Left  string `parser:"@Ident"`
	Right string `parser:"@Ident"`
}

var parser = participle.MustBuild[File](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Newline", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse reads one schema definition from r.
func Parse(filename string, r io.Reader) (*File, error) {
	return parser.Parse(filename, r)
}

// ParseString reads one schema definition from a string.
func ParseString(filename, content string) (*File, error) {
	return parser.ParseString(filename, content)
}
