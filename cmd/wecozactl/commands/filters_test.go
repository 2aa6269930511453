package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

func parseFlags(t *testing.T, args ...string) reportFlags {
	t.Helper()
	var f reportFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.register(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestReportFlagsFilter(t *testing.T) {
	f := parseFlags(t, "--from", "2026-01-01", "--to", "2026-03-31", "--status", "completed", "--client-id", "8")
	out, err := f.filter()
	require.NoError(t, err)

	require.NotNil(t, out.Status)
	assert.Equal(t, model.StatusCompleted, *out.Status)
	assert.Equal(t, int64(8), *out.ClientID)
	assert.Nil(t, out.EmployerID)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *out.DateTo)
}

func TestReportFlagsRejectBadInput(t *testing.T) {
	for _, args := range [][]string{
		{"--status", "archived"},
		{"--from", "01/02/2026"},
		{"--from", "2026-04-01", "--to", "2026-03-01"},
	} {
		_, err := parseFlags(t, args...).filter()
		assert.Error(t, err, "%v", args)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, model.ReportSummary{TotalLearners: 2, TotalProgressions: 3, CompletedCount: 1, AvgProgress: 41.7, CompletionRate: 33.3}, 3)
	assert.Contains(t, buf.String(), "Completion rate:    33.3%")
	assert.Contains(t, buf.String(), "Export rows:        3")
}
