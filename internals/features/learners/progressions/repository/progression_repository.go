package repository

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/cache"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

// ProgressionRepository reads and writes learner progression tracking
// records, the hours ledger and portfolio file records.
//
// Every method returns a safe default alongside its error (nil, empty slice,
// 0 or a zero-filled summary); use KindOf to classify the error.
type ProgressionRepository struct {
	DB    *gorm.DB
	Cache *cache.Loader

	// Now is the clock used for defaults and audit stamps.
	Now func() time.Time
}

func New(db *gorm.DB, loader *cache.Loader) *ProgressionRepository {
	if loader == nil {
		loader = cache.NewLoader(cache.Nop{}, 0)
	}
	return &ProgressionRepository{DB: db, Cache: loader, Now: time.Now}
}

func (r *ProgressionRepository) db(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx)
}

func (r *ProgressionRepository) today() time.Time {
	n := r.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *ProgressionRepository) invalidate(ctx context.Context) {
	r.Cache.Invalidate(ctx, cache.NamespaceProgressions)
}

/* ===================== READS ===================== */

func (r *ProgressionRepository) FindByID(ctx context.Context, trackingID int64) (*model.ProgressionRow, error) {
	var row model.ProgressionRow
	res := r.db(ctx).Raw(progressionSelect+` WHERE lpt.tracking_id = ? LIMIT 1`, trackingID).Scan(&row)
	if res.Error != nil {
		return nil, queryFailed("FindByID", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}

// FindCurrentForLearner returns the learner's in_progress record, or nil.
// Uniqueness is enforced by a partial index; LIMIT 1 keeps the contract even
// on databases migrated before the index existed.
func (r *ProgressionRepository) FindCurrentForLearner(ctx context.Context, learnerID int64) (*model.ProgressionRow, error) {
	var rows []model.ProgressionRow
	err := r.db(ctx).Raw(progressionSelect+`
		WHERE lpt.learner_id = ? AND lpt.status = ?
		ORDER BY lpt.start_date DESC, lpt.tracking_id DESC
		LIMIT 1`, learnerID, string(model.StatusInProgress)).Scan(&rows).Error
	if err != nil {
		return nil, queryFailed("FindCurrentForLearner", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ProgressionRepository) FindAllForLearner(ctx context.Context, learnerID int64) ([]model.ProgressionRow, error) {
	rows := []model.ProgressionRow{}
	err := r.db(ctx).Raw(progressionSelect+`
		WHERE lpt.learner_id = ?
		ORDER BY lpt.start_date DESC, lpt.tracking_id DESC`, learnerID).Scan(&rows).Error
	if err != nil {
		return []model.ProgressionRow{}, queryFailed("FindAllForLearner", err)
	}
	return rows, nil
}

func (r *ProgressionRepository) FindHistoryForLearner(ctx context.Context, learnerID int64) ([]model.ProgressionRow, error) {
	rows := []model.ProgressionRow{}
	err := r.db(ctx).Raw(progressionSelect+`
		WHERE lpt.learner_id = ? AND lpt.status = ?
		ORDER BY lpt.completion_date DESC NULLS LAST, lpt.tracking_id DESC`,
		learnerID, string(model.StatusCompleted)).Scan(&rows).Error
	if err != nil {
		return []model.ProgressionRow{}, queryFailed("FindHistoryForLearner", err)
	}
	return rows, nil
}

// GetLearnerOverview splits current vs history in one round trip.
func (r *ProgressionRepository) GetLearnerOverview(ctx context.Context, learnerID int64) (model.LearnerOverview, error) {
	type bucketRow struct {
		Bucket string `gorm:"column:bucket"`
		model.ProgressionRow
	}
	out := model.LearnerOverview{History: []model.ProgressionRow{}}

	var rows []bucketRow
	err := r.db(ctx).Raw(`
		WITH learner_progressions AS (
			`+progressionSelect+`
			WHERE lpt.learner_id = ?
		),
		current_progression AS (
			SELECT * FROM learner_progressions
			WHERE status = ?
			ORDER BY start_date DESC, tracking_id DESC
			LIMIT 1
		)
		SELECT 'current' AS bucket, cp.* FROM current_progression cp
		UNION ALL
		SELECT 'history' AS bucket, lp.* FROM learner_progressions lp WHERE lp.status = ?
		ORDER BY bucket ASC, completion_date DESC NULLS LAST, tracking_id DESC`,
		learnerID, string(model.StatusInProgress), string(model.StatusCompleted)).Scan(&rows).Error
	if err != nil {
		return out, queryFailed("GetLearnerOverview", err)
	}

	for i := range rows {
		if rows[i].Bucket == "current" {
			cur := rows[i].ProgressionRow
			out.Current = &cur
			continue
		}
		out.History = append(out.History, rows[i].ProgressionRow)
	}
	return out, nil
}

// FindByClass lists a class roster ordered by learner surname then first name.
func (r *ProgressionRepository) FindByClass(ctx context.Context, classID int64, status *model.Status) ([]model.ProgressionRow, error) {
	var w whereBuilder
	w.add("lpt.class_id = ?", classID)
	if status != nil {
		w.add("lpt.status = ?", string(*status))
	}

	rows := []model.ProgressionRow{}
	err := r.db(ctx).Raw(progressionSelect+w.sql()+`
		ORDER BY l.surname ASC, l.first_name ASC, lpt.tracking_id ASC`, w.args...).Scan(&rows).Error
	if err != nil {
		return []model.ProgressionRow{}, queryFailed("FindByClass", err)
	}
	return rows, nil
}

// FindWithFilters backs the admin list. limit <= 0 returns every row.
func (r *ProgressionRepository) FindWithFilters(ctx context.Context, f ProgressionFilter, limit, offset int) ([]model.ProgressionRow, error) {
	w := f.where()
	q := progressionSelect + w.sql() + ` ORDER BY lpt.created_at DESC, lpt.tracking_id DESC`
	args := w.args
	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		q += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows := []model.ProgressionRow{}
	if err := r.db(ctx).Raw(q, args...).Scan(&rows).Error; err != nil {
		return []model.ProgressionRow{}, queryFailed("FindWithFilters", err)
	}
	return rows, nil
}

func (r *ProgressionRepository) CountWithFilters(ctx context.Context, f ProgressionFilter) (int64, error) {
	key := cache.NewKey(cache.NamespaceProgressions, "count:"+f.fingerprint())
	return cache.Fetch(ctx, r.Cache, key, func(ctx context.Context) (int64, error) {
		w := f.where()
		var n int64
		if err := r.db(ctx).Raw(`SELECT COUNT(*)`+enrichedFrom+w.sql(), w.args...).Scan(&n).Error; err != nil {
			return 0, queryFailed("CountWithFilters", err)
		}
		return n, nil
	})
}

// GetMonthlyProgressions lists completions inside one calendar month.
func (r *ProgressionRepository) GetMonthlyProgressions(ctx context.Context, year, month int) ([]model.ProgressionRow, error) {
	if year < 1 || month < 1 || month > 12 {
		return []model.ProgressionRow{}, errors.Wrapf(ErrInvalidPeriod, "%04d-%02d", year, month)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows := []model.ProgressionRow{}
	err := r.db(ctx).Raw(progressionSelect+`
		WHERE lpt.status = ? AND lpt.completion_date >= ? AND lpt.completion_date < ?
		ORDER BY lpt.completion_date ASC, lpt.tracking_id ASC`,
		string(model.StatusCompleted), from.Format(dateLayout), to.Format(dateLayout)).Scan(&rows).Error
	if err != nil {
		return []model.ProgressionRow{}, queryFailed("GetMonthlyProgressions", err)
	}
	return rows, nil
}

/* ===================== WRITES ===================== */

// Insert creates a tracking record from whitelisted columns. start_date
// defaults to today and status to in_progress.
func (r *ProgressionRepository) Insert(ctx context.Context, data Fields) (int64, error) {
	fields := restrictToAllowed(data, insertColumns)
	if len(fields) == 0 {
		return 0, ErrNoValidColumns
	}
	if err := checkStatus(fields); err != nil {
		return 0, err
	}
	if _, ok := fields["start_date"]; !ok {
		fields["start_date"] = r.today().Format(dateLayout)
	}
	if _, ok := fields["status"]; !ok {
		fields["status"] = string(model.StatusInProgress)
	}
	now := r.Now()
	fields["created_at"] = now
	fields["updated_at"] = now

	cols, vals := ordered(fields, insertWriteOrder)
	var id int64
	err := r.db(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(buildInsert("learner_lp_tracking", cols, "tracking_id"), vals...).Scan(&id).Error
	})
	if err != nil {
		return 0, queryFailed("Insert", err)
	}
	r.invalidate(ctx)
	return id, nil
}

// Update writes whitelisted columns and always stamps updated_at.
// It never changes status on its own.
func (r *ProgressionRepository) Update(ctx context.Context, trackingID int64, data Fields) error {
	fields := restrictToAllowed(data, updateColumns)
	if len(fields) == 0 {
		return ErrNoValidColumns
	}
	if err := checkStatus(fields); err != nil {
		return err
	}
	fields["updated_at"] = r.Now()

	cols, vals := ordered(fields, updateWriteOrder)
	vals = append(vals, trackingID)

	var affected int64
	err := r.db(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`UPDATE learner_lp_tracking SET `+buildSet(cols)+` WHERE tracking_id = ?`, vals...)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return queryFailed("Update", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx)
	return nil
}

// Delete hard-deletes a tracking record. Ledger rows are left in place.
func (r *ProgressionRepository) Delete(ctx context.Context, trackingID int64) error {
	res := r.db(ctx).Exec(`DELETE FROM learner_lp_tracking WHERE tracking_id = ?`, trackingID)
	if res.Error != nil {
		return queryFailed("Delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidate(ctx)
	return nil
}

func checkStatus(fields Fields) error {
	v, ok := fields["status"]
	if !ok {
		return nil
	}
	var s model.Status
	switch t := v.(type) {
	case model.Status:
		s = t
	case string:
		s = model.Status(t)
	default:
		return ErrInvalidStatus
	}
	if !s.Valid() {
		return errors.Wrapf(ErrInvalidStatus, "%q", string(s))
	}
	fields["status"] = string(s)
	return nil
}
