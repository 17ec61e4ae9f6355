package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldnote/editor/internal/tags"
)

var tagsCmd = &cobra.Command{
	Use:   "tags <query>",
	Short: "Search tags by partial name",
	Args:  cobra.ExactArgs(1),
	RunE:  runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	store, cfg, err := loadStore()
	if err != nil {
		return err
	}

	var meili *tags.Meili
	if cfg.MeiliURL != "" {
		meili = tags.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meili.Close()
	}
	svc := tags.NewService(meili, store)

	suggestions := svc.Suggest(cmd.Context(), args[0])
	if len(suggestions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no matching tags")
		return nil
	}
	for _, s := range suggestions {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", s.Name, s.EntryCount)
	}
	return nil
}
