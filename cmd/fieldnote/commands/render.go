package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldnote/editor/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render <entry-id>",
	Short: "Render an entry's blocks to HTML on stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	store, _, err := loadStore()
	if err != nil {
		return err
	}

	doc, err := store.Load(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), render.HTML(doc.Content))
	return nil
}
