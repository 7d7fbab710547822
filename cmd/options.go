package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intelligrit/gtd-map/internal/model"
	"github.com/intelligrit/gtd-map/internal/options"
)

var (
	optionsCountry string
	optionsField   string
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the provinces, cities or perpetrators recorded for a country",
	RunE: func(cmd *cobra.Command, args []string) error {
		field := model.Field(optionsField)
		if !field.Valid() {
			return fmt.Errorf("unknown field %q", optionsField)
		}

		ds, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}

		values := options.Countries(ds)
		if field != model.FieldCountry {
			values = options.For(ds, optionsCountry, field)
		}
		for _, v := range values {
			fmt.Println(v)
		}
		return nil
	},
}

func init() {
	optionsCmd.Flags().StringVar(&optionsCountry, "country", "", "Country to list options for")
	optionsCmd.Flags().StringVar(&optionsField, "field", "city", "One of province, city, actor, country")
	rootCmd.AddCommand(optionsCmd)
}
