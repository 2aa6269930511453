package repository

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

// LogHours appends a ledger row. The tracking rollup is left untouched;
// call RecomputeHours when it should reflect the new entry.
func (r *ProgressionRepository) LogHours(ctx context.Context, data Fields) (int64, error) {
	fields := restrictToAllowed(data, hoursLogColumns)
	if len(fields) == 0 {
		return 0, ErrNoValidColumns
	}
	if err := checkSource(fields); err != nil {
		return 0, err
	}
	if _, ok := fields["log_date"]; !ok {
		fields["log_date"] = r.today().Format(dateLayout)
	}
	fields["created_at"] = r.Now()

	cols, vals := ordered(fields, hoursLogWriteOrder)
	var id int64
	if err := r.db(ctx).Raw(buildInsert("learner_hours_log", cols, "log_id"), vals...).Scan(&id).Error; err != nil {
		return 0, queryFailed("LogHours", err)
	}
	r.invalidate(ctx)
	return id, nil
}

func (r *ProgressionRepository) GetHoursLog(ctx context.Context, trackingID int64) ([]model.HoursLogRow, error) {
	rows := []model.HoursLogRow{}
	err := r.db(ctx).Raw(hoursLogSelect+`
		WHERE lhl.tracking_id = ?
		ORDER BY lhl.log_date DESC, lhl.log_id DESC`, trackingID).Scan(&rows).Error
	if err != nil {
		return []model.HoursLogRow{}, queryFailed("GetHoursLog", err)
	}
	return rows, nil
}

// GetHoursLogForLearner lists ledger rows, optionally bounded by log_date (inclusive).
func (r *ProgressionRepository) GetHoursLogForLearner(ctx context.Context, learnerID int64, from, to *time.Time) ([]model.HoursLogRow, error) {
	var w whereBuilder
	w.add("lhl.learner_id = ?", learnerID)
	if from != nil {
		w.add("lhl.log_date >= ?", from.Format(dateLayout))
	}
	if to != nil {
		w.add("lhl.log_date <= ?", to.Format(dateLayout))
	}

	rows := []model.HoursLogRow{}
	err := r.db(ctx).Raw(hoursLogSelect+w.sql()+`
		ORDER BY lhl.log_date DESC, lhl.log_id DESC`, w.args...).Scan(&rows).Error
	if err != nil {
		return []model.HoursLogRow{}, queryFailed("GetHoursLogForLearner", err)
	}
	return rows, nil
}

// DeleteHoursLogBySessionID reverses one captured session. The affected
// tracking ids are read before the delete so the caller knows exactly which
// rollups to recompute.
func (r *ProgressionRepository) DeleteHoursLogBySessionID(ctx context.Context, sessionID int64) ([]int64, error) {
	var ids pq.Int64Array
	err := r.db(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Raw(`
			SELECT COALESCE(array_agg(DISTINCT tracking_id ORDER BY tracking_id), '{}')
			FROM learner_hours_log
			WHERE session_id = ? AND tracking_id IS NOT NULL`, sessionID).Row()
		if err := row.Scan(&ids); err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM learner_hours_log WHERE session_id = ?`, sessionID).Error
	})
	if err != nil {
		return []int64{}, queryFailed("DeleteHoursLogBySessionID", err)
	}
	r.invalidate(ctx)

	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

// RecomputeHours rebuilds a tracking record's rollup from the ledger.
func (r *ProgressionRepository) RecomputeHours(ctx context.Context, trackingID int64) error {
	res := r.db(ctx).Exec(`
		UPDATE learner_lp_tracking lpt SET
			hours_trained = agg.trained,
			hours_present = agg.present,
			hours_absent = GREATEST(agg.trained - agg.present, 0),
			updated_at = ?
		FROM (
			SELECT COALESCE(SUM(hours_trained), 0) AS trained,
			       COALESCE(SUM(hours_present), 0) AS present
			FROM learner_hours_log
			WHERE tracking_id = ?
		) agg
		WHERE lpt.tracking_id = ?`, r.Now(), trackingID, trackingID)
	if res.Error != nil {
		return queryFailed("RecomputeHours", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx)
	return nil
}

func checkSource(fields Fields) error {
	v, ok := fields["source"]
	if !ok {
		fields["source"] = string(model.SourceManual)
		return nil
	}
	var s model.HoursSource
	switch t := v.(type) {
	case model.HoursSource:
		s = t
	case string:
		s = model.HoursSource(t)
	}
	if s != model.SourceManual && s != model.SourceSystem {
		return errors.Wrapf(ErrInvalidSource, "%v", v)
	}
	fields["source"] = string(s)
	return nil
}
