package cli

import (
	"log"

	"healthassistant/internal/app"
	"healthassistant/internal/mcptools"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the assistant as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol; logs go to stderr.
			log.SetOutput(cmd.ErrOrStderr())
			return server.ServeStdio(mcptools.NewServer(a.Pipeline, a.Config.Location))
		},
	}
}
