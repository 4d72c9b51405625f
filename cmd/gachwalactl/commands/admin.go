package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gachwala/storefront/internal/dto"
	"github.com/gachwala/storefront/internal/service"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createMasterAdminCmd = &cobra.Command{
	Use:   "create-master-admin",
	Short: "Create the master admin account",
	Long: `Create the single master admin. Fails if a master admin already exists
or the email is taken.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, backend, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer backend.Close(ctx)

		admins := service.NewAdminService(backend.Store.Users)
		user, err := admins.CreateMasterAdmin(ctx, dto.CreateAdminRequest{
			Name:     adminName,
			Email:    adminEmail,
			Password: adminPassword,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "master admin %s created (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createMasterAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	createMasterAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	createMasterAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password (at least 6 characters)")
	for _, f := range []string{"name", "email", "password"} {
		_ = createMasterAdminCmd.MarkFlagRequired(f)
	}
	rootCmd.AddCommand(createMasterAdminCmd)
}
