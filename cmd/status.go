package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/intelligrit/gtd-map/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what has been imported",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(dataDir)
		if err != nil {
			return err
		}
		defer s.Close()

		importedAt, source := s.ImportInfo()
		if importedAt == "" {
			importedAt, source = "never", "-"
		}

		fmt.Printf("Import Status\n")
		fmt.Printf("=============\n")
		fmt.Printf("Imported at: %s\n", importedAt)
		fmt.Printf("Source:      %s\n", source)
		fmt.Printf("Events:      %d\n", s.EventCount())
		fmt.Printf("Countries:   %d\n", s.CountryCount())

		byYear := s.CountByYear()
		if len(byYear) > 0 {
			fmt.Printf("\nPer-Year Breakdown\n")
			fmt.Printf("------------------\n")

			years := make([]int, 0, len(byYear))
			for y := range byYear {
				years = append(years, y)
			}
			sort.Ints(years)

			for _, y := range years {
				fmt.Printf("  %d  %6d\n", y, byYear[y])
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
