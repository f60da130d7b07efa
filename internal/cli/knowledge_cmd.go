package cli

import (
	"fmt"

	"healthassistant/internal/app"
	"healthassistant/internal/knowledge"

	"github.com/spf13/cobra"
)

func newKnowledgeCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "knowledge [category]",
		Short: "List knowledge versions, or print one category's document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, category := range knowledge.Categories {
					version, err := a.Knowledge.Version(category)
					if err != nil {
						version = "missing"
					}
					fmt.Fprintf(out, "%-8s %s\n", category, version)
				}
				return nil
			}

			doc, err := a.Knowledge.Document(knowledge.Category(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(out, doc)
		},
	}
}
