package sqlgen

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdent(t *testing.T) {
	t.Run("wraps in double quotes", func(t *testing.T) {
		assert.Equal(t, `"Users"`, ANSI.QuoteIdent("Users"))
	})

	t.Run("doubles embedded quotes", func(t *testing.T) {
		assert.Equal(t, `"we""ird"`, ANSI.QuoteIdent(`we"ird`))
	})

	t.Run("truncates to the identifier limit", func(t *testing.T) {
		d := Dialect{QuoteOpen: `"`, QuoteClose: `"`, MaxIdentifierLength: 4}
		assert.Equal(t, `"abcd"`, d.QuoteIdent("abcdefgh"))
	})

	t.Run("truncates by runes, not bytes", func(t *testing.T) {
		d := Dialect{QuoteOpen: `"`, QuoteClose: `"`, MaxIdentifierLength: 4}
		out := d.QuoteIdent("таблица")
		assert.Equal(t, `"табл"`, out)
		assert.True(t, utf8.ValidString(out))
	})

	t.Run("QuoteIdents preserves order", func(t *testing.T) {
		assert.Equal(t, []string{`"a"`, `"b"`}, ANSI.QuoteIdents([]string{"a", "b"}))
	})
}
