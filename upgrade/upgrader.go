// Package upgrade applies a migration plan to a live database in two
// transactional phases: drop, then create. Each phase is atomic on its own;
// the pair is not. A prepare phase that commits before a failing finalize
// phase leaves tables dropped but not recreated; that state is surfaced to
// the caller, which owns any retry policy.
package upgrade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/schemaforge/schemaforge/internal/debug"
	"github.com/schemaforge/schemaforge/plan"
	"github.com/schemaforge/schemaforge/schema"
	"github.com/schemaforge/schemaforge/sqlgen"
)

var (
	ErrNilDB    = errors.New("upgrade: nil database handle")
	ErrNilModel = errors.New("upgrade: nil model")
	ErrNilPlan  = errors.New("upgrade: nil plan")
)

// DBTX is the execution scope a phase runs in. Both *sql.DB and *sql.Tx
// satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upgrader executes migration plans. When constructed over an open
// transaction, both phases run inside it; otherwise each phase opens and
// commits its own transaction.
type Upgrader struct {
	db      *sql.DB
	tx      *sql.Tx
	dialect sqlgen.Dialect
}

func New(db *sql.DB, dialect sqlgen.Dialect) (*Upgrader, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	return &Upgrader{db: db, dialect: dialect}, nil
}

// NewTx builds an upgrader that reuses an already-open transaction. The
// caller owns commit and rollback.
func NewTx(tx *sql.Tx, dialect sqlgen.Dialect) (*Upgrader, error) {
	if tx == nil {
		return nil, ErrNilDB
	}
	return &Upgrader{tx: tx, dialect: dialect}, nil
}

// PrepareBatch builds the phase-1 DDL: all planned table drops first, then
// the remaining index drops. A changed index whose owning table is itself
// being dropped vanishes with the table, so its drop is elided when the
// model can resolve the owner; indexes no longer present in the model stay
// in the batch.
func (u *Upgrader) PrepareBatch(m *schema.Model, p *plan.Plan) *sqlgen.Batch {
	b := sqlgen.NewBatch()
	for _, name := range p.DropTables() {
		b.Add(sqlgen.BuildDropTable(u.dialect, name))
	}
	for _, name := range p.DropIndexes() {
		if m != nil {
			if ix := m.FindIndex(name); ix != nil && p.TablesToDrop[ix.Table] {
				continue
			}
		}
		b.Add(sqlgen.BuildDropIndex(u.dialect, name))
	}
	return b
}

// FinalizeBatch builds the phase-2 DDL: every planned table with its
// indexes, followed by standalone index creates for indexes changing
// independently of a table rebuild.
func (u *Upgrader) FinalizeBatch(m *schema.Model, p *plan.Plan) *sqlgen.Batch {
	b := sqlgen.NewBatch()
	b.Add(sqlgen.BuildSchemaFor(u.dialect, m, p.TablesToCreate).Statements()...)
	b.Add(sqlgen.BuildIndexesFor(u.dialect, m, p.IndexesToCreate, p.TablesToCreate).Statements()...)
	return b
}

// Prepare runs phase 1. An empty drop set executes nothing.
func (u *Upgrader) Prepare(ctx context.Context, m *schema.Model, p *plan.Plan) error {
	if m == nil {
		return ErrNilModel
	}
	if p == nil {
		return ErrNilPlan
	}
	if err := u.execBatch(ctx, u.PrepareBatch(m, p)); err != nil {
		return fmt.Errorf("drop phase failed: %w", err)
	}
	return nil
}

// Finalize runs phase 2. An empty create set executes nothing.
func (u *Upgrader) Finalize(ctx context.Context, m *schema.Model, p *plan.Plan) error {
	if m == nil {
		return ErrNilModel
	}
	if p == nil {
		return ErrNilPlan
	}
	if err := u.execBatch(ctx, u.FinalizeBatch(m, p)); err != nil {
		return fmt.Errorf("create phase failed: %w", err)
	}
	return nil
}

func (u *Upgrader) execBatch(ctx context.Context, b *sqlgen.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	if u.tx != nil {
		return execStatements(ctx, u.tx, b)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := execStatements(ctx, tx, b); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func execStatements(ctx context.Context, scope DBTX, b *sqlgen.Batch) error {
	for i, stmt := range b.Statements() {
		text := stmt.Render()
		if text == "" {
			continue
		}
		debug.Debug("executing statement", "position", i+1, "sql", text)
		if _, err := scope.ExecContext(ctx, text); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return nil
}
