package commands

import (
	"fmt"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/models"
	"github.com/americanbox/americanbox-api/services"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert company settings and the default providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		db := config.GetDB()
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		if err := services.Seed(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Printf("Seeded company settings and %d providers\n", len(services.DefaultProviders))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
