package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fieldnote/editor/internal/block"
	"fieldnote/editor/internal/draft"
	"fieldnote/editor/internal/gateway"
	"fieldnote/editor/internal/notify"
)

var recoverApply bool

var recoverCmd = &cobra.Command{
	Use:   "recover <entry-id>",
	Short: "Inspect or restore an unsaved draft from the crash-recovery store",
	Long: `A session that could not save (or was hidden while dirty) leaves a
draft snapshot in Redis. recover prints it; with --apply it is written
back to the store and the snapshot removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecover,
}

func init() {
	recoverCmd.Flags().BoolVar(&recoverApply, "apply", false, "Save the draft back to the store")
	rootCmd.AddCommand(recoverCmd)
}

func runRecover(cmd *cobra.Command, args []string) error {
	store, cfg, err := loadStore()
	if err != nil {
		return err
	}
	if cfg.RedisURL == "" {
		return fmt.Errorf("no redis_url configured, draft recovery unavailable")
	}

	drafts, err := draft.NewStore(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect draft store: %w", err)
	}
	defer drafts.Close()

	d, err := drafts.Get(cmd.Context(), args[0])
	if errors.Is(err, draft.ErrNoDraft) {
		fmt.Fprintln(cmd.OutOrStdout(), "no draft for this entry")
		return nil
	}
	if err != nil {
		return err
	}

	if !recoverApply {
		printDraft(cmd, d)
		return nil
	}

	patch := gateway.Patch{Content: &d.Content}
	if d.Title != "" {
		patch.Title = &d.Title
	}
	if len(d.TagNames) > 0 {
		patch.TagNames = d.TagNames
	}
	if _, err := store.Save(cmd.Context(), d.DocumentID, patch); err != nil {
		return fmt.Errorf("restore draft: %w", err)
	}
	if err := drafts.Delete(cmd.Context(), d.DocumentID); err != nil {
		return fmt.Errorf("drop restored draft: %w", err)
	}

	notify.Notifyf(notify.Console{}, notify.Info, "Draft restored to entry %s", d.DocumentID)
	return nil
}

func printDraft(cmd *cobra.Command, d draft.Draft) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "entry:    %s\n", d.DocumentID)
	fmt.Fprintf(out, "title:    %s\n", d.Title)
	if len(d.TagNames) > 0 {
		fmt.Fprintf(out, "tags:     %s\n", strings.Join(d.TagNames, ", "))
	}
	fmt.Fprintf(out, "saved at: %s\n", d.SavedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "preview:  %s\n", block.Preview(d.Content, 120))
}
