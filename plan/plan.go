// Package plan decides which schema objects must be dropped and which must
// be (re)created, by comparing stored fingerprints against freshly computed
// ones.
package plan

import "sort"

// Plan names the objects a migration must touch. Tables listed in
// TablesToCreate regenerate their indexes as part of table creation;
// IndexesToCreate covers only indexes that change or appear independently
// of a table rebuild.
type Plan struct {
	TablesToDrop    map[string]bool
	IndexesToDrop   map[string]bool
	TablesToCreate  map[string]bool
	IndexesToCreate map[string]bool
}

func New() *Plan {
	return &Plan{
		TablesToDrop:    make(map[string]bool),
		IndexesToDrop:   make(map[string]bool),
		TablesToCreate:  make(map[string]bool),
		IndexesToCreate: make(map[string]bool),
	}
}

// Empty reports whether the plan requires no work.
func (p *Plan) Empty() bool {
	return len(p.TablesToDrop) == 0 &&
		len(p.IndexesToDrop) == 0 &&
		len(p.TablesToCreate) == 0 &&
		len(p.IndexesToCreate) == 0
}

// Destructive reports whether applying the plan drops anything.
func (p *Plan) Destructive() bool {
	return len(p.TablesToDrop) > 0 || len(p.IndexesToDrop) > 0
}

func sorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Sorted accessors keep DDL emission deterministic regardless of map order.

func (p *Plan) DropTables() []string    { return sorted(p.TablesToDrop) }
func (p *Plan) DropIndexes() []string   { return sorted(p.IndexesToDrop) }
func (p *Plan) CreateTables() []string  { return sorted(p.TablesToCreate) }
func (p *Plan) CreateIndexes() []string { return sorted(p.IndexesToCreate) }
