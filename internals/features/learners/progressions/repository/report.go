package repository

import (
	"context"
	"math"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/cache"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

// FindForReport lists progressions for the report page, grouped by employer.
func (r *ProgressionRepository) FindForReport(ctx context.Context, f ReportFilter) ([]model.ProgressionRow, error) {
	w := f.where()
	rows := []model.ProgressionRow{}
	if err := r.db(ctx).Raw(reportSelect+w.sql()+reportOrder, w.args...).Scan(&rows).Error; err != nil {
		return []model.ProgressionRow{}, queryFailed("FindForReport", err)
	}
	return rows, nil
}

// GetReportSummaryStats aggregates the same rows FindForReport returns.
// Average progress only covers rows that are not completed.
func (r *ProgressionRepository) GetReportSummaryStats(ctx context.Context, f ReportFilter) (model.ReportSummary, error) {
	key := cache.NewKey(cache.NamespaceProgressions, "summary:"+f.fingerprint())
	return cache.Fetch(ctx, r.Cache, key, func(ctx context.Context) (model.ReportSummary, error) {
		w := f.where()
		var s model.ReportSummary
		if err := r.db(ctx).Raw(summarySelect+w.sql(), w.args...).Scan(&s).Error; err != nil {
			return model.ReportSummary{}, queryFailed("GetReportSummaryStats", err)
		}
		s.AvgProgress = round1(s.AvgProgress)
		s.CompletionRate = completionRate(s.CompletedCount, s.TotalProgressions)
		return s, nil
	})
}

// FindForRegulatoryExport returns the flat compliance projection.
func (r *ProgressionRepository) FindForRegulatoryExport(ctx context.Context, f ReportFilter) ([]model.RegulatoryExportRow, error) {
	w := f.where()
	rows := []model.RegulatoryExportRow{}
	if err := r.db(ctx).Raw(exportSelect+w.sql()+exportOrder, w.args...).Scan(&rows).Error; err != nil {
		return []model.RegulatoryExportRow{}, queryFailed("FindForRegulatoryExport", err)
	}
	return rows, nil
}

// GetRegulatoryExportCount previews how many rows an export would produce.
func (r *ProgressionRepository) GetRegulatoryExportCount(ctx context.Context, f ReportFilter) (int64, error) {
	key := cache.NewKey(cache.NamespaceProgressions, "export_count:"+f.fingerprint())
	return cache.Fetch(ctx, r.Cache, key, func(ctx context.Context) (int64, error) {
		w := f.where()
		var n int64
		if err := r.db(ctx).Raw(`SELECT COUNT(*)`+enrichedFrom+w.sql(), w.args...).Scan(&n).Error; err != nil {
			return 0, queryFailed("GetRegulatoryExportCount", err)
		}
		return n, nil
	})
}

func completionRate(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(completed) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
