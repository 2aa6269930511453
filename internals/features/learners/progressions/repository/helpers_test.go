package repository

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/cache"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

// recordingStore always misses and counts invalidations.
type recordingStore struct {
	mu          sync.Mutex
	invalidated []cache.Namespace
}

func (s *recordingStore) Get(context.Context, cache.Key) ([]byte, error) { return nil, cache.ErrMiss }
func (s *recordingStore) Set(context.Context, cache.Key, []byte, time.Duration) error {
	return nil
}
func (s *recordingStore) Delete(context.Context, cache.Key) error { return nil }
func (s *recordingStore) Close() error                            { return nil }
func (s *recordingStore) Generation(context.Context, cache.Namespace) (uint64, error) {
	return uint64(s.count()), nil
}
func (s *recordingStore) Invalidate(_ context.Context, ns cache.Namespace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, ns)
	return nil
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invalidated)
}

func newMockRepo(t *testing.T) (*ProgressionRepository, sqlmock.Sqlmock, *recordingStore) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	return openMockRepo(t, sqlDB, mock)
}

// capturedSQL keeps every statement that matched an expectation, as sent.
type capturedSQL struct {
	mu    sync.Mutex
	stmts []string
}

func (c *capturedSQL) at(i int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stmts[i]
}

// newCapturingRepo is newMockRepo plus a record of the SQL that reached the driver.
func newCapturingRepo(t *testing.T) (*ProgressionRepository, sqlmock.Sqlmock, *capturedSQL) {
	t.Helper()
	captured := &capturedSQL{}
	matcher := sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		if err := sqlmock.QueryMatcherRegexp.Match(expectedSQL, actualSQL); err != nil {
			return err
		}
		captured.mu.Lock()
		captured.stmts = append(captured.stmts, actualSQL)
		captured.mu.Unlock()
		return nil
	})
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	repo, mock, _ := openMockRepo(t, sqlDB, mock)
	return repo, mock, captured
}

func openMockRepo(t *testing.T, sqlDB *sql.DB, mock sqlmock.Sqlmock) (*ProgressionRepository, sqlmock.Sqlmock, *recordingStore) {
	t.Helper()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Discard,
	})
	require.NoError(t, err)

	store := &recordingStore{}
	repo := New(gdb, cache.NewLoader(store, time.Minute))
	repo.Now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return repo, mock, store
}

// fromWhere cuts a tracking query down to its FROM, joins and WHERE clause.
func fromWhere(t *testing.T, stmt string) string {
	t.Helper()
	i := strings.Index(stmt, "FROM learner_lp_tracking lpt")
	require.GreaterOrEqual(t, i, 0, "no tracking FROM in %q", stmt)
	out := stmt[i:]
	if j := strings.Index(out, "ORDER BY"); j >= 0 {
		out = out[:j]
	}
	return strings.TrimSpace(out)
}

func q(fragment string) string { return regexp.QuoteMeta(fragment) }

func progressionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"tracking_id", "learner_id", "class_type_subject_id", "class_id",
		"hours_trained", "hours_present", "status", "start_date", "completion_date",
		"learner_first_name", "learner_surname", "subject_name", "subject_duration", "progress_percentage",
	})
}

func ptr[T any](v T) *T { return &v }
