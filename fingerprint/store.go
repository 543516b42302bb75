package fingerprint

import (
	"context"
	"time"

	"github.com/schemaforge/schemaforge/schema"
)

// Record is one persisted fingerprint: the last DDL hash observed for a
// schema object, scoped to a logical owner so independent schemas can share
// one physical store table.
type Record struct {
	ID        int64
	Key       schema.ObjectKey
	Hash      string
	Owner     string
	CreatedAt time.Time
}

// Store reads and writes fingerprint records. Implementations own record
// identity and storage layout; the engine never assumes either.
type Store interface {
	// Init creates the physical store if it does not exist yet.
	Init(ctx context.Context) error
	// Exists reports whether the physical store is present. Callers treat
	// a missing store as "no history", not an error.
	Exists(ctx context.Context) (bool, error)
	// List returns all records for one owner.
	List(ctx context.Context, owner string) ([]Record, error)
	// Upsert inserts or replaces the record for (owner, key).
	Upsert(ctx context.Context, owner string, key schema.ObjectKey, hash string) error
	// Delete removes the record for (owner, key). Deleting an absent record
	// is not an error.
	Delete(ctx context.Context, owner string, key schema.ObjectKey) error
}

// ByKey indexes a record list for planner consumption.
func ByKey(records []Record) map[schema.ObjectKey]Record {
	out := make(map[schema.ObjectKey]Record, len(records))
	for _, r := range records {
		out[r.Key] = r
	}
	return out
}
