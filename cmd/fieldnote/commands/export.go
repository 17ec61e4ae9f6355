package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fieldnote/editor/internal/export"
	"fieldnote/editor/internal/notify"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <entry-id>",
	Short: "Export an entry to a standalone HTML page or PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "html", "Output format: html or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output path (defaults to a name derived from the title)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	store, _, err := loadStore()
	if err != nil {
		return err
	}

	svc := export.NewService(store)
	result, err := svc.Export(cmd.Context(), args[0], export.Format(exportFormat))
	if err != nil {
		return err
	}

	path := exportOut
	if path == "" {
		path = result.Filename
	}
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	notify.Notifyf(notify.Console{}, notify.Info, "Exported to %s", path)
	return nil
}
