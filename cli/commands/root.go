// Package commands implements the schemaforge CLI commands.
package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	// Database drivers. The DDL grammar is single-dialect; the driver only
	// affects connectivity.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/version"
	"github.com/schemaforge/schemaforge/fingerprint"
	"github.com/schemaforge/schemaforge/internal/debug"
	"github.com/schemaforge/schemaforge/schema"
	"github.com/schemaforge/schemaforge/schema/sdl"
	"github.com/schemaforge/schemaforge/sqlgen"
	"github.com/schemaforge/schemaforge/upgrade"
)

// NewRootCommand builds the CLI command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "schemaforge",
		Short:         "Fingerprint-based schema migration",
		Long:          "schemaforge generates DDL for a declared relational schema and migrates a database incrementally by fingerprinting each table and index.",
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var debugLogs bool
	root.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable diagnostic logging to stderr")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		debug.Init(debugLogs)
	}

	root.AddCommand(newPlanCommand())
	root.AddCommand(newUpgradeCommand())
	root.AddCommand(newStatusCommand())
	root.AddCommand(newInitCommand())
	root.AddCommand(newVersionCommand())

	return root
}

// loadModel reads and resolves the schema definition file.
func loadModel(fs afero.Fs, path string) (*schema.Model, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return sdl.ParseModel(path, string(content))
}

// openEngine opens the database and wires store, upgrader and engine.
// The returned close function owns the connection.
func openEngine(cfg *config.Config) (*upgrade.Engine, func() error, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("no database URL configured (set DATABASE_URL or SCHEMAFORGE_DATABASE_URL)")
	}
	db, err := sql.Open(config.DriverName(cfg.Provider), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	u, err := upgrade.New(db, sqlgen.ANSI)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	store := fingerprint.NewSQLStore(db, cfg.Provider)
	engine, err := upgrade.NewEngine(u, store, cfg.Owner)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return engine, db.Close, nil
}
