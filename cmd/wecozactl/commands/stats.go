package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

var statsFlags reportFlags

var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print report summary statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := statsFlags.filter()
		if err != nil {
			return err
		}
		_, repo, closeFn, err := openService()
		if err != nil {
			return err
		}
		defer closeFn()

		s, err := repo.GetReportSummaryStats(cmd.Context(), f)
		if err != nil {
			return err
		}
		n, err := repo.GetRegulatoryExportCount(cmd.Context(), f)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), s, n)
		return nil
	},
}

func init() {
	statsFlags.register(StatsCmd.Flags())
}

func printSummary(w io.Writer, s model.ReportSummary, exportRows int64) {
	fmt.Fprintf(w, "Learners:           %d\n", s.TotalLearners)
	fmt.Fprintf(w, "Progressions:       %d\n", s.TotalProgressions)
	fmt.Fprintf(w, "  completed:        %d\n", s.CompletedCount)
	fmt.Fprintf(w, "  in progress:      %d\n", s.InProgressCount)
	fmt.Fprintf(w, "  on hold:          %d\n", s.OnHoldCount)
	fmt.Fprintf(w, "Average progress:   %.1f%%\n", s.AvgProgress)
	fmt.Fprintf(w, "Completion rate:    %.1f%%\n", s.CompletionRate)
	fmt.Fprintf(w, "Export rows:        %d\n", exportRows)
}
