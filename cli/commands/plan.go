package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/config"
	"github.com/schemaforge/schemaforge/internal/ui"
	"github.com/schemaforge/schemaforge/internal/watch"
	"github.com/schemaforge/schemaforge/plan"
)

func newPlanCommand() *cobra.Command {
	var (
		showSQL bool
		outFile string
		explain bool
		watchIt bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the migration plan without applying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			run := func() error {
				return runPlan(cmd.Context(), cfg, showSQL, outFile, explain)
			}
			if !watchIt {
				return run()
			}

			w, err := watch.New(cfg.SchemaPath, run)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			ui.PrintInfo("watching %s, press Ctrl+C to stop", cfg.SchemaPath)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt)
			<-stop
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSQL, "sql", false, "Print the DDL the plan would execute")
	cmd.Flags().StringVar(&outFile, "out", "", "Write the DDL script to a file")
	cmd.Flags().BoolVar(&explain, "explain", false, "Render a markdown explanation of the plan")
	cmd.Flags().BoolVar(&watchIt, "watch", false, "Re-plan whenever the schema file changes")

	return cmd
}

func runPlan(ctx context.Context, cfg *config.Config, showSQL bool, outFile string, explain bool) error {
	m, err := loadModel(config.AppFs, cfg.SchemaPath)
	if err != nil {
		return err
	}
	engine, closeDB, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	p, err := engine.Plan(ctx, m)
	if err != nil {
		return err
	}

	if explain {
		if err := ui.PrintMarkdown(explainPlan(p)); err != nil {
			return err
		}
	} else {
		printPlan(p)
	}

	if showSQL || outFile != "" {
		script := engine.Script(m, p)
		if showSQL && script != "" {
			fmt.Println()
			ui.PrintSQL(script)
		}
		if outFile != "" {
			if err := afero.WriteFile(config.AppFs, outFile, []byte(script), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}
			ui.PrintSuccess("wrote DDL script to %s", outFile)
		}
	}
	return nil
}

func printPlan(p *plan.Plan) {
	if p.Empty() {
		ui.PrintSuccess("schema is up to date, nothing to do")
		return
	}
	var rows [][]string
	for _, name := range p.DropTables() {
		rows = append(rows, []string{"drop", "table", name})
	}
	for _, name := range p.DropIndexes() {
		rows = append(rows, []string{"drop", "index", name})
	}
	for _, name := range p.CreateTables() {
		rows = append(rows, []string{"create", "table", name})
	}
	for _, name := range p.CreateIndexes() {
		rows = append(rows, []string{"create", "index", name})
	}
	ui.PrintTable([]string{"Action", "Kind", "Name"}, rows)
	if p.Destructive() {
		ui.PrintWarning("plan drops objects; dropped tables lose their data")
	}
}

func explainPlan(p *plan.Plan) string {
	var b strings.Builder
	b.WriteString("# Migration plan\n\n")
	if p.Empty() {
		b.WriteString("The schema matches its recorded fingerprints. No DDL will run.\n")
		return b.String()
	}
	section := func(title string, names []string) {
		if len(names) == 0 {
			return
		}
		b.WriteString("## " + title + "\n\n")
		for _, n := range names {
			b.WriteString("- `" + n + "`\n")
		}
		b.WriteString("\n")
	}
	section("Tables to drop", p.DropTables())
	section("Indexes to drop", p.DropIndexes())
	section("Tables to create", p.CreateTables())
	section("Indexes to create", p.CreateIndexes())
	b.WriteString("Drops run first in their own transaction, creates in a second one. ")
	b.WriteString("Tables being created regenerate their own indexes.\n")
	return b.String()
}
