package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/services"
	"github.com/custodia-labs/folio/internal/normalise"
)

var parseOutput string

var parseCmd = &cobra.Command{
	Use:   "parse [input]",
	Short: "Parse MARCXML records into canonical records",
	Long: `Reads MARCXML from a file or a directory of .xml files and writes
canonical records as line-delimited JSON. Records that decode but carry
no usable fields are logged and skipped; the batch continues. Broken XML
syntax aborts the affected file, since the decoder cannot resync past
it.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "canonical.jsonl", "output file")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	svc := services.NewIngestService(normalise.New(nil), nil)

	stats, err := svc.Parse(cmd.Context(), args[0], parseOutput)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	cmd.Printf("Parsed %d records to %s", stats.Records, parseOutput)
	if stats.Errors > 0 {
		cmd.Printf(" (%d skipped)", stats.Errors)
	}
	cmd.Println()
	return nil
}
