package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldnote/editor/internal/config"
	"fieldnote/editor/internal/gateway"
	"fieldnote/editor/internal/notify"
)

var (
	version string
	commit  string
	date    string
)

var rootCmd = &cobra.Command{
	Use:   "fieldnote",
	Short: "Fieldnote - block-structured journal tooling",
	Long: `Fieldnote works against a journal store's HTTP API: render entries
to HTML, export them to standalone HTML or PDF, search tags, and recover
unsaved drafts from the crash-recovery store.

Configuration comes from fieldnote.yml (or FIELDNOTE_CONFIG) with
environment variables taking precedence.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Errors are reported by the notifier, so
// cobra's own printing is silenced.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.Execute()
	if err != nil {
		notify.Notifyf(notify.Console{}, notify.Error, "%v", err)
	}
	return err
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// loadStore builds the persistence gateway client from configuration.
func loadStore() (*gateway.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	return gateway.New(cfg.StoreURL, gateway.StaticToken(cfg.CSRFToken)), cfg, nil
}
