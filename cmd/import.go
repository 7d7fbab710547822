package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/intelligrit/gtd-map/internal/dataset"
	"github.com/intelligrit/gtd-map/internal/store"
)

var importCSV string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the GTD CSV export into the local event database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("csv") {
			importCSV = cfg.Data.CSV
		}

		log.Info("reading csv", zap.String("path", importCSV))
		rows, err := dataset.ReadCSVFile(importCSV)
		if err != nil {
			return fmt.Errorf("reading %s: %w", importCSV, err)
		}

		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.WriteEvents(rows, importCSV); err != nil {
			return fmt.Errorf("saving events: %w", err)
		}

		_, stats := dataset.Normalize(rows)
		fmt.Printf("Imported %d rows (%d usable, %d with unknown month, %d with invalid date)\n",
			stats.Raw, stats.Loaded, stats.DroppedMonth, stats.DroppedDate)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSV, "csv", "", "Path to the GTD CSV export")
	rootCmd.AddCommand(importCmd)
}
