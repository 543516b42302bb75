package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/ui"
)

const starterSchema = `// schemaforge schema definition

table Users {
    id    integer pk
    name  text
    email text null
}

index ix_users_name on Users (name)
unique index ux_users_email on Users (email)
`

const starterEnv = `DATABASE_URL=app.db
SCHEMAFORGE_OWNER=default
`

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold a schema definition and .env file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := config.AppFs
			for _, f := range []struct{ name, content string }{
				{"schema.sfg", starterSchema},
				{".env", starterEnv},
			} {
				if _, err := fs.Stat(f.name); err == nil {
					ui.PrintWarning("%s already exists, skipping", f.name)
					continue
				}
				if err := afero.WriteFile(fs, f.name, []byte(f.content), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", f.name, err)
				}
				ui.PrintSuccess("created %s", f.name)
			}
			fmt.Println()
			ui.PrintInfo("next: edit schema.sfg, then run `schemaforge plan`")
			return nil
		},
	}
}
