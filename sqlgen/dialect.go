package sqlgen

import "strings"

// Dialect holds the identifier rules of the target SQL grammar. Escaping is
// a pure function of the dialect and the raw name; no shared state.
type Dialect struct {
	QuoteOpen  string
	QuoteClose string
	// MaxIdentifierLength truncates raw names before quoting. Zero means
	// unlimited.
	MaxIdentifierLength int
}

// ANSI is the default grammar: double-quoted identifiers with embedded
// quotes doubled. Accepted by PostgreSQL and SQLite as-is.
var ANSI = Dialect{QuoteOpen: `"`, QuoteClose: `"`}

// QuoteIdent escapes a raw identifier for embedding in DDL text.
func (d Dialect) QuoteIdent(name string) string {
	if d.MaxIdentifierLength > 0 {
		// Truncate by runes so a multibyte name never splits mid-character.
		if runes := []rune(name); len(runes) > d.MaxIdentifierLength {
			name = string(runes[:d.MaxIdentifierLength])
		}
	}
	if d.QuoteClose != "" {
		name = strings.ReplaceAll(name, d.QuoteClose, d.QuoteClose+d.QuoteClose)
	}
	return d.QuoteOpen + name + d.QuoteClose
}

// QuoteIdents escapes each name in order.
func (d Dialect) QuoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = d.QuoteIdent(n)
	}
	return out
}
