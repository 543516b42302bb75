package commands

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/ui"
)

func newUpgradeCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Apply the migration plan to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			m, err := loadModel(config.AppFs, cfg.SchemaPath)
			if err != nil {
				return err
			}
			engine, closeDB, err := openEngine(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			p, err := engine.Plan(cmd.Context(), m)
			if err != nil {
				return err
			}
			if p.Empty() {
				ui.PrintSuccess("schema is up to date, nothing to do")
				return nil
			}
			printPlan(p)

			if p.Destructive() && !force {
				confirmed := false
				prompt := &survey.Confirm{
					Message: "This plan drops objects. Continue?",
					Default: false,
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					ui.PrintInfo("aborted")
					return nil
				}
			}

			spinner, _ := ui.Spinner("applying migration")
			_, err = engine.Upgrade(cmd.Context(), m)
			if spinner != nil {
				if err != nil {
					spinner.Fail("migration failed")
				} else {
					spinner.Success("migration applied")
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt for destructive plans")
	return cmd
}
