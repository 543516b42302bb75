package commands

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/ui"
	"github.com/schemaforge/schemaforge/fingerprint"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List recorded fingerprints for the configured owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := sql.Open(config.DriverName(cfg.Provider), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			store := fingerprint.NewSQLStore(db, cfg.Provider)
			exists, err := store.Exists(cmd.Context())
			if err != nil {
				return err
			}
			if !exists {
				ui.PrintInfo("no fingerprint history yet; the next upgrade treats every object as new")
				return nil
			}

			records, err := store.List(cmd.Context(), cfg.Owner)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				ui.PrintInfo("no fingerprints recorded for owner %q", cfg.Owner)
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{
					r.Key.Kind.String(),
					r.Key.Name,
					r.Hash[:12],
					r.CreatedAt.Format("2006-01-02 15:04:05"),
				})
			}
			ui.PrintTable([]string{"Kind", "Name", "Hash", "Recorded"}, rows)
			return nil
		},
	}
}
