package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	database "github.com/yourdesigncoza/wecoza-core-sub001/internals/databases"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/seeds"
)

var seedDir string

var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load development fixtures into an empty database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close(db)

		n, err := seeds.RunAllSeeds(cmd.Context(), db, seedDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d progressions seeded\n", n)
		return nil
	},
}

func init() {
	SeedCmd.Flags().StringVar(&seedDir, "dir", "internals/seeds", "Fixture root directory")
}
