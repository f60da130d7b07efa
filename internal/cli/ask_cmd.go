package cli

import (
	"fmt"
	"strings"
	"time"

	"healthassistant/internal/app"

	"github.com/spf13/cobra"
)

func newAskCmd(a *app.App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   `ask <user-id> "<message>"`,
		Short: "Send one chat message as a user and print the reply",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := time.Now().In(a.Config.Location)
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: use RFC 3339", at)
				}
				ts = parsed
			}

			reply, err := a.Pipeline.HandleMessage(cmd.Context(), args[0], strings.Join(args[1:], " "), ts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, reply.Text)
			for _, q := range reply.QuickReplies {
				fmt.Fprintf(out, "  > %s\n", q.Text)
			}
			if reply.Fallback {
				fmt.Fprintln(out, "(fallback reply)")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "message time in RFC 3339 (default now)")
	return cmd
}
