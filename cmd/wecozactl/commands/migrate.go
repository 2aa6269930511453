package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	database "github.com/yourdesigncoza/wecoza-core-sub001/internals/databases"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the progression tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}
