package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grindhq/grindd/internal/store"
)

// NewDataCmd creates the data command with export and import subcommands
func NewDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export or import daemon data",
		Long:  "Snapshot both storage partitions to a JSON file, or restore a snapshot",
	}
	cmd.AddCommand(newDataExportCmd())
	cmd.AddCommand(newDataImportCmd())
	return cmd
}

func newDataExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			blob, err := st.ExportAll(context.Background())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			data, err := json.MarshalIndent(blob, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			fmt.Printf("Exported data to %s.\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "grindd-export.json", "Output file path")
	return cmd
}

func newDataImportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a previously exported JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			var blob store.ExportBlob
			if err := json.Unmarshal(data, &blob); err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}
			if blob.Version == "" {
				return fmt.Errorf("import file has no version field")
			}

			st, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := st.ImportAll(context.Background(), &blob); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Printf("Imported data from %s (version %s).\n", file, blob.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Export file to import (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
