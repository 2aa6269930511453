package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/cache"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

func TestFindByID(t *testing.T) {
	repo, mock, _ := newMockRepo(t)
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q(`WHERE lpt.tracking_id = $1 LIMIT 1`)).
		WithArgs(9).
		WillReturnRows(progressionRows().AddRow(
			9, 42, 7, 3, 40.0, 30.0, "in_progress", start, nil,
			"Thandi", "Mokoena", "Communication NQF2", 120.0, 25.0))

	row, err := repo.FindByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), row.TrackingID)
	assert.Equal(t, int64(42), row.LearnerID)
	assert.Equal(t, model.StatusInProgress, row.Status)
	assert.Equal(t, "Mokoena", row.LearnerSurname)
	assert.Equal(t, 25.0, row.ProgressPercentage)
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock, _ := newMockRepo(t)
	mock.ExpectQuery(q(`WHERE lpt.tracking_id = $1`)).WithArgs(404).WillReturnRows(progressionRows())

	row, err := repo.FindByID(context.Background(), 404)
	assert.Nil(t, row)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestFindCurrentForLearnerNone(t *testing.T) {
	repo, mock, _ := newMockRepo(t)
	mock.ExpectQuery(q(`WHERE lpt.learner_id = $1 AND lpt.status = $2`)).
		WithArgs(42, "in_progress").
		WillReturnRows(progressionRows())

	row, err := repo.FindCurrentForLearner(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, row)
}

func TestFindAllForLearnerQueryFailure(t *testing.T) {
	repo, mock, _ := newMockRepo(t)
	mock.ExpectQuery(q(`WHERE lpt.learner_id = $1`)).WithArgs(42).WillReturnError(errors.New("connection reset"))

	rows, err := repo.FindAllForLearner(context.Background(), 42)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, KindQuery, KindOf(err))
	assert.Contains(t, err.Error(), "progressions.FindAllForLearner")
}

func TestGetLearnerOverviewSplitsBuckets(t *testing.T) {
	repo, mock, _ := newMockRepo(t)
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	done := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"bucket", "tracking_id", "learner_id", "status", "start_date", "completion_date"}).
		AddRow("current", 5, 42, "in_progress", start, nil).
		AddRow("history", 2, 42, "completed", start.AddDate(0, -3, 0), done).
		AddRow("history", 1, 42, "completed", start.AddDate(0, -6, 0), done.AddDate(0, -2, 0))
	mock.ExpectQuery(q(`WITH learner_progressions AS`)).
		WithArgs(42, "in_progress", "completed").
		WillReturnRows(rows)

	ov, err := repo.GetLearnerOverview(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, ov.Current)
	assert.Equal(t, int64(5), ov.Current.TrackingID)
	require.Len(t, ov.History, 2)
	assert.Equal(t, int64(2), ov.History[0].TrackingID)
}

func TestFindWithFiltersPaging(t *testing.T) {
	repo, mock, _ := newMockRepo(t)

	mock.ExpectQuery(q(`WHERE lpt.class_id = $1 ORDER BY lpt.created_at DESC, lpt.tracking_id DESC LIMIT $2 OFFSET $3`)).
		WithArgs(3, 20, 40).
		WillReturnRows(progressionRows())
	_, err := repo.FindWithFilters(context.Background(), ProgressionFilter{ClassID: ptr(int64(3))}, 20, 40)
	require.NoError(t, err)

	// limit <= 0 means no paging clause at all
	mock.ExpectQuery(`ORDER BY lpt.created_at DESC, lpt.tracking_id DESC$`).
		WillReturnRows(progressionRows())
	_, err = repo.FindWithFilters(context.Background(), ProgressionFilter{}, 0, 10)
	require.NoError(t, err)
}

func TestGetMonthlyProgressions(t *testing.T) {
	repo, mock, _ := newMockRepo(t)

	mock.ExpectQuery(q(`lpt.completion_date >= $2 AND lpt.completion_date < $3`)).
		WithArgs("completed", "2026-12-01", "2027-01-01").
		WillReturnRows(progressionRows())
	_, err := repo.GetMonthlyProgressions(context.Background(), 2026, 12)
	require.NoError(t, err)

	rows, err := repo.GetMonthlyProgressions(context.Background(), 2026, 13)
	assert.Empty(t, rows)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestInsertAppliesDefaults(t *testing.T) {
	repo, mock, store := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`INSERT INTO learner_lp_tracking (learner_id, class_type_subject_id, class_id, status, start_date, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING tracking_id`)).
		WithArgs(int64(42), int64(7), int64(3), "in_progress", "2026-10-16", fixedNow, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"tracking_id"}).AddRow(11))
	mock.ExpectCommit()

	id, err := repo.Insert(context.Background(), Fields{
		"learner_id":            int64(42),
		"class_type_subject_id": int64(7),
		"class_id":              int64(3),
		"tracking_id":           int64(999),
		"hours_absent_override": 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.Equal(t, 1, store.count())
}

func TestInsertRejectsEmptyAndInvalid(t *testing.T) {
	repo, _, store := newMockRepo(t)

	_, err := repo.Insert(context.Background(), Fields{"tracking_id": 1})
	assert.ErrorIs(t, err, ErrNoValidColumns)

	_, err = repo.Insert(context.Background(), Fields{"learner_id": 1, "status": "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Zero(t, store.count())
}

func TestInsertSecondInProgressIsConflict(t *testing.T) {
	repo, mock, store := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`INSERT INTO learner_lp_tracking`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_lpt_learner_in_progress"})
	mock.ExpectRollback()

	_, err := repo.Insert(context.Background(), Fields{"learner_id": int64(42), "class_type_subject_id": int64(7)})
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Zero(t, store.count())
}

func TestUpdateStampsUpdatedAt(t *testing.T) {
	repo, mock, store := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE learner_lp_tracking SET status = $1, completion_date = $2, updated_at = $3 WHERE tracking_id = $4`)).
		WithArgs("completed", "2026-10-16", fixedNow, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), 9, Fields{
		"status":          model.StatusCompleted,
		"completion_date": "2026-10-16",
		"learner_id":      int64(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.count())
}

func TestUpdateMissingRow(t *testing.T) {
	repo, mock, store := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(q(`UPDATE learner_lp_tracking SET notes = $1, updated_at = $2 WHERE tracking_id = $3`)).
		WithArgs("x", fixedNow, 404).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), 404, Fields{"notes": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.count())
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock, _ := newMockRepo(t)
	mock.ExpectExec(q(`DELETE FROM learner_lp_tracking WHERE tracking_id = $1`)).
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 404), ErrNotFound)
}

func TestCountWithFiltersUsesCache(t *testing.T) {
	sqlRepo, mock, _ := newMockRepo(t)
	store, err := cache.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	sqlRepo.Cache = cache.NewLoader(store, time.Minute)

	f := ProgressionFilter{Status: ptr(model.StatusOnHold)}
	mock.ExpectQuery(q(`SELECT COUNT(*)`)).
		WithArgs("on_hold").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	for i := 0; i < 2; i++ {
		n, err := sqlRepo.CountWithFilters(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	}
}
