package upgrade

import (
	"context"
	"fmt"

	"github.com/schemaforge/schemaforge/fingerprint"
	"github.com/schemaforge/schemaforge/internal/debug"
	"github.com/schemaforge/schemaforge/plan"
	"github.com/schemaforge/schemaforge/schema"
	"github.com/schemaforge/schemaforge/sqlgen"
)

// Engine ties the fingerprint generator, the fingerprint store, the planner
// and the upgrader together for one logical schema owner. Engines hold no
// state between calls; every operation recomputes fingerprints from the
// model it is given.
//
// Migration must not run concurrently against one physical database. The
// engine provides no locking; single-flight is the caller's responsibility.
type Engine struct {
	upgrader *Upgrader
	store    fingerprint.Store
	dialect  sqlgen.Dialect
	owner    string
}

func NewEngine(u *Upgrader, store fingerprint.Store, owner string) (*Engine, error) {
	if u == nil {
		return nil, ErrNilDB
	}
	return &Engine{upgrader: u, store: store, dialect: u.dialect, owner: owner}, nil
}

// Plan computes the migration plan for the model without executing anything.
// A missing fingerprint store reads as empty history, so first runs and
// drifted pre-existing databases share the "everything is new" path.
func (e *Engine) Plan(ctx context.Context, m *schema.Model) (*plan.Plan, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	old, err := e.history(ctx)
	if err != nil {
		return nil, err
	}
	return plan.Build(old, fingerprint.Generate(e.dialect, m)), nil
}

// Script renders the complete DDL a plan would execute: the drop batch, then
// the create batch, joined in batch order.
func (e *Engine) Script(m *schema.Model, p *plan.Plan) string {
	b := sqlgen.NewBatch()
	b.Add(e.upgrader.PrepareBatch(m, p).Statements()...)
	b.Add(e.upgrader.FinalizeBatch(m, p).Statements()...)
	return b.Render()
}

// Upgrade plans and applies the migration, then reconciles the fingerprint
// store: removed objects are deleted, new and changed objects upserted.
// The store is only written after the create phase succeeds.
func (e *Engine) Upgrade(ctx context.Context, m *schema.Model) (*plan.Plan, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	old, err := e.history(ctx)
	if err != nil {
		return nil, err
	}
	current := fingerprint.Generate(e.dialect, m)
	p := plan.Build(old, current)
	debug.Debug("plan computed",
		"owner", e.owner,
		"drop_tables", len(p.TablesToDrop),
		"drop_indexes", len(p.IndexesToDrop),
		"create_tables", len(p.TablesToCreate),
		"create_indexes", len(p.IndexesToCreate))

	if err := e.upgrader.Prepare(ctx, m, p); err != nil {
		return p, err
	}
	if err := e.upgrader.Finalize(ctx, m, p); err != nil {
		return p, err
	}
	if err := e.reconcile(ctx, old, current); err != nil {
		return p, err
	}
	return p, nil
}

func (e *Engine) history(ctx context.Context) (map[schema.ObjectKey]fingerprint.Record, error) {
	exists, err := e.store.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to probe fingerprint store: %w", err)
	}
	if !exists {
		return map[schema.ObjectKey]fingerprint.Record{}, nil
	}
	records, err := e.store.List(ctx, e.owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprints: %w", err)
	}
	return fingerprint.ByKey(records), nil
}

func (e *Engine) reconcile(ctx context.Context, old map[schema.ObjectKey]fingerprint.Record, current map[schema.ObjectKey]string) error {
	if err := e.store.Init(ctx); err != nil {
		return err
	}
	for key, rec := range old {
		if _, present := current[key]; !present {
			if err := e.store.Delete(ctx, e.owner, key); err != nil {
				return err
			}
			continue
		}
		if rec.Hash != current[key] {
			if err := e.store.Upsert(ctx, e.owner, key, current[key]); err != nil {
				return err
			}
		}
	}
	for key, hash := range current {
		if _, known := old[key]; !known {
			if err := e.store.Upsert(ctx, e.owner, key, hash); err != nil {
				return err
			}
		}
	}
	return nil
}
