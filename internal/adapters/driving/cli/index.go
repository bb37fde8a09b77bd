package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/services"
	"github.com/custodia-labs/folio/internal/normalise"
)

var indexDB string

var indexCmd = &cobra.Command{
	Use:   "index [input]",
	Short: "Load normalized records into the index",
	Long: `Loads normalized records into the SQLite index in one transaction:
either every record in the batch becomes visible or none does.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexDB, "db", "", "index database path (default from config)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg, indexDB)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := services.NewIngestService(normalise.New(nil), store)

	count, err := svc.Index(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	total, err := store.CountRecords(cmd.Context())
	if err != nil {
		return fmt.Errorf("counting records: %w", err)
	}

	cmd.Printf("Indexed %d records (%d total)\n", count, total)
	return nil
}
