package commands

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/service"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export progression data",
}

var (
	exportFlags reportFlags
	exportOut   string
)

var exportRegulatoryCmd = &cobra.Command{
	Use:   "regulatory",
	Short: "Write the regulatory compliance export as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := exportFlags.filter()
		if err != nil {
			return err
		}
		_, repo, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		// fetch before touching --out so a failed query leaves no empty file
		rows, err := repo.FindForRegulatoryExport(cmd.Context(), f)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			file, err := os.Create(exportOut)
			if err != nil {
				return errors.Wrap(err, "create output file")
			}
			defer file.Close()
			w = file
		}

		n, err := service.WriteRegulatoryRows(w, rows)
		if err != nil {
			return err
		}
		logger.Logger.Infow("regulatory export written", "rows", n, "out", exportOut)
		return nil
	},
}

func init() {
	ExportCmd.AddCommand(exportRegulatoryCmd)
	exportFlags.register(exportRegulatoryCmd.Flags())
	exportRegulatoryCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
