package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the schema or indexes of the configured store",
	Long: `Apply the embedded Postgres schema, or create the MongoDB indexes when
STORE_DRIVER=mongo. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, backend, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer backend.Close(ctx)

		if err := backend.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s store migrated\n", backend.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
