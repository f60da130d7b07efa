package cli

import (
	"errors"
	"fmt"
	"time"

	"healthassistant/internal/app"
	"healthassistant/internal/models"
	"healthassistant/internal/services"

	"github.com/spf13/cobra"
)

func newReportCmd(a *app.App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "report <user-id>",
		Short: "Print the seven-day report for a user as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			end := time.Now().In(a.Config.Location)
			if to != "" {
				parsed, err := time.ParseInLocation(models.DateLayout, to, a.Config.Location)
				if err != nil {
					return fmt.Errorf("invalid --to %q: use YYYY-MM-DD", to)
				}
				end = parsed
			}

			report, err := a.Pipeline.WeeklyReport(cmd.Context(), args[0], end)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "last day of the window (default today)")
	return cmd
}

func newProfileCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <user-id>",
		Short: "Print a user's profile with BMR, TDEE and BMI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.Pipeline.Profiles().Get(cmd.Context(), args[0])
			if errors.Is(err, services.ErrProfileNotFound) {
				return fmt.Errorf("no profile stored for %s", args[0])
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
}
