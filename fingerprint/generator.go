// Package fingerprint computes and persists content fingerprints of the DDL
// text generated for each schema object. The hash is the sole change signal:
// two generations of the same object must be byte-identical or migration
// will drop and recreate it needlessly.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/schemaforge/schemaforge/schema"
	"github.com/schemaforge/schemaforge/sqlgen"
)

// Hash returns the hex sha256 of a DDL text. Stable across platforms and
// process restarts.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Generate renders the create DDL for every table and index in the model and
// hashes each text independently. A table's hash covers its CREATE TABLE
// statement alone, so editing an index never changes the owning table's
// fingerprint.
func Generate(d sqlgen.Dialect, m *schema.Model) map[schema.ObjectKey]string {
	out := make(map[schema.ObjectKey]string)
	for _, t := range m.Tables() {
		out[schema.TableKey(t.Name)] = Hash(sqlgen.BuildCreateTable(d, t).Render())
		for _, ix := range t.Indexes {
			out[schema.IndexKey(ix.Name)] = Hash(sqlgen.BuildCreateIndex(d, ix).Render())
		}
	}
	return out
}
