package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/update"
	"github.com/schemaforge/schemaforge/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		check bool
		full  bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if full {
				fmt.Println(info.FullString())
			} else {
				fmt.Println(info.String())
			}
			if check {
				return update.Check(info.Version)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check for a newer release")
	cmd.Flags().BoolVar(&full, "full", false, "Print build metadata")
	return cmd
}
