package cli

import (
	"fmt"
	"time"

	"healthassistant/internal/app"
	"healthassistant/internal/utils"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app.App) *cobra.Command {
	var (
		days  int
		seed  int64
		clean bool
	)

	cmd := &cobra.Command{
		Use:   "seed <user-id>",
		Short: "Fill a user's history with demo records, or remove it with --clean",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := args[0]
			if clean {
				if err := utils.CleanupDemoUser(cmd.Context(), a.Profiles, a.Logs, userID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed all records for %s\n", userID)
				return nil
			}

			seeder := utils.NewDemoSeeder(a.Profiles, a.Logs, a.Knowledge, a.Config.ActivityMultipliers, seed)
			if err := seeder.Seed(cmd.Context(), userID, days, time.Now().In(a.Config.Location)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d days for %s\n", days, userID)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", utils.DefaultDemoDays, "number of days ending today")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().BoolVar(&clean, "clean", false, "delete the user's profile and logs instead")
	return cmd
}
