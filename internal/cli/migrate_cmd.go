package cli

import (
	"fmt"

	"healthassistant/database"
	"healthassistant/internal/app"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.MigrateDatabase(a.DB); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", a.Config.Database.Driver)
			return nil
		},
	}
}
