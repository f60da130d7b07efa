// Package cli implements healthctl, the operator command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"healthassistant/internal/app"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "healthctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *app.App) *cobra.Command {
	root := &cobra.Command{
		Use:           "healthctl",
		Short:         "Operate the health assistant from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAskCmd(a),
		newReportCmd(a),
		newProfileCmd(a),
		newSeedCmd(a),
		newMigrateCmd(a),
		newKnowledgeCmd(a),
		newMCPCmd(a),
	)

	return root
}

func writeJSON(w io.Writer, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(body))
	return err
}
