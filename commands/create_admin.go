package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/americanbox/americanbox-api/config"
	"github.com/americanbox/americanbox-api/services"
	"github.com/spf13/cobra"
)

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a back-office user",
	Long: `Create an admin login. The password can be passed with --password
or through the ADMIN_PASSWORD environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			adminPassword = os.Getenv("ADMIN_PASSWORD")
		}
		if adminUsername == "" || adminPassword == "" {
			return errors.New("--username and --password (or ADMIN_PASSWORD) are required")
		}

		if _, err := bootstrap(); err != nil {
			return err
		}

		user, err := services.NewAuthService(config.GetDB()).CreateAdmin(cmd.Context(), adminUsername, adminPassword)
		if err != nil {
			return err
		}
		fmt.Printf("Created admin %q (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (min 6 characters)")
}
