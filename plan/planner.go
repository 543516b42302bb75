package plan

import (
	"github.com/schemaforge/schemaforge/fingerprint"
	"github.com/schemaforge/schemaforge/schema"
)

// Build compares stored fingerprints against freshly computed ones and
// produces the migration plan. Single pass over each mapping; correctness
// does not depend on iteration order.
//
// For each recorded object: absent from the current model means drop; a hash
// mismatch means the object changed: a table is dropped and recreated, an
// index is dropped and recreated independently. Objects with matching hashes
// are untouched. Objects only in the current model are created; new indexes
// on tables that are themselves being created ride along with the table and
// are filtered out at DDL build time, not here.
func Build(old map[schema.ObjectKey]fingerprint.Record, current map[schema.ObjectKey]string) *Plan {
	p := New()

	for key, rec := range old {
		hash, present := current[key]
		switch {
		case !present:
			// Removed from the model.
			switch key.Kind {
			case schema.KindTable:
				p.TablesToDrop[key.Name] = true
			case schema.KindIndex:
				p.IndexesToDrop[key.Name] = true
			}
		case rec.Hash != hash:
			// Changed.
			switch key.Kind {
			case schema.KindTable:
				p.TablesToDrop[key.Name] = true
				p.TablesToCreate[key.Name] = true
			case schema.KindIndex:
				p.IndexesToDrop[key.Name] = true
				p.IndexesToCreate[key.Name] = true
			}
		}
	}

	for key := range current {
		if _, known := old[key]; known {
			continue
		}
		switch key.Kind {
		case schema.KindTable:
			p.TablesToCreate[key.Name] = true
		case schema.KindIndex:
			p.IndexesToCreate[key.Name] = true
		}
	}

	return p
}
