package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var recordDB string

var recordCmd = &cobra.Command{
	Use:   "record [id]",
	Short: "Show one indexed record with its provenance",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordDB, "db", "", "index database path (default from config)")
	rootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg, recordDB)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.GetRecord(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("fetching record: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
