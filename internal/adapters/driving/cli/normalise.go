package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/services"
)

var (
	normaliseOutput     string
	normaliseAliasTable string
)

var normaliseCmd = &cobra.Command{
	Use:   "normalise [input]",
	Short: "Normalise canonical records",
	Long: `Reads canonical records and derives normalized values for dates,
places and publishers. Raw values are always preserved; a value that
cannot be normalized is recorded as unresolved, never guessed.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalise,
}

func init() {
	normaliseCmd.Flags().StringVarP(&normaliseOutput, "output", "o", "normalized.jsonl", "output file")
	normaliseCmd.Flags().StringVar(&normaliseAliasTable, "alias-table", "", "place/publisher alias table (TOML)")
	rootCmd.AddCommand(normaliseCmd)
}

func runNormalise(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	normaliser, err := buildNormaliser(cfg, normaliseAliasTable)
	if err != nil {
		return err
	}

	svc := services.NewIngestService(normaliser, nil)

	stats, err := svc.Normalise(cmd.Context(), args[0], normaliseOutput)
	if err != nil {
		return fmt.Errorf("normalise failed: %w", err)
	}

	cmd.Printf("Normalised %d records to %s\n", stats.Records, normaliseOutput)
	return nil
}
