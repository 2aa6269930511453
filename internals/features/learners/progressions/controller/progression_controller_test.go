package controller

import (
	"context"
	"encoding/csv"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/service"
	helper "github.com/yourdesigncoza/wecoza-core-sub001/internals/helpers"
)

// stubStore and stubWorkflow implement only what each test touches; calling
// anything else panics on the nil embedded interface.
type stubStore struct {
	Store

	row        *model.ProgressionRow
	rows       []model.ProgressionRow
	total      int64
	err        error
	lastFilter repository.ProgressionFilter
	lastLimit  int
	lastOffset int
	lastReport repository.ReportFilter
	lastFields repository.Fields
	exportRows int64
	export     []model.RegulatoryExportRow
}

func (s *stubStore) FindByID(context.Context, int64) (*model.ProgressionRow, error) {
	return s.row, s.err
}

func (s *stubStore) FindCurrentForLearner(context.Context, int64) (*model.ProgressionRow, error) {
	return s.row, s.err
}

func (s *stubStore) FindWithFilters(_ context.Context, f repository.ProgressionFilter, limit, offset int) ([]model.ProgressionRow, error) {
	s.lastFilter, s.lastLimit, s.lastOffset = f, limit, offset
	return s.rows, s.err
}

func (s *stubStore) CountWithFilters(context.Context, repository.ProgressionFilter) (int64, error) {
	return s.total, s.err
}

func (s *stubStore) Update(_ context.Context, _ int64, data repository.Fields) error {
	s.lastFields = data
	return s.err
}

func (s *stubStore) GetRegulatoryExportCount(context.Context, repository.ReportFilter) (int64, error) {
	return s.exportRows, s.err
}

func (s *stubStore) FindForRegulatoryExport(_ context.Context, f repository.ReportFilter) ([]model.RegulatoryExportRow, error) {
	s.lastReport = f
	return s.export, s.err
}

type stubWorkflow struct {
	Workflow

	startIn   service.StartInput
	startID   int64
	err       error
	actor     *int64
	completed int64
}

func (w *stubWorkflow) Start(_ context.Context, in service.StartInput) (int64, error) {
	w.startIn = in
	return w.startID, w.err
}

func (w *stubWorkflow) MarkComplete(_ context.Context, id int64, actor *int64) error {
	w.completed, w.actor = id, actor
	return w.err
}

func newTestApp(store Store, wf Workflow, locals map[string]any) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.ErrorHandler,
	})
	app.Use(func(c *fiber.Ctx) error {
		for k, v := range locals {
			c.Locals(k, v)
		}
		return c.Next()
	})
	ctrl := NewProgressionController(store, wf)
	g := app.Group("/progressions")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Get("/exports/regulatory/count", ctrl.ExportCount)
	g.Get("/exports/regulatory", ctrl.ExportCSV)
	g.Get("/learner/:learner_id/current", ctrl.LearnerCurrent)
	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", ctrl.Patch)
	g.Post("/:id/complete", ctrl.Complete)
	return app
}

type envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	ErrorCode  string              `json:"error_code"`
	Errors     map[string][]string `json:"errors"`
	Data       any                 `json:"data"`
	Pagination *helper.Pagination  `json:"pagination"`
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestListPassesFiltersAndPaging(t *testing.T) {
	store := &stubStore{rows: []model.ProgressionRow{{}, {}}, total: 42}
	app := newTestApp(store, &stubWorkflow{}, nil)

	status, env := do(t, app, "GET", "/progressions?class_id=3&status=on_hold&page=3&per_page=10&unknown=x", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)

	require.NotNil(t, store.lastFilter.ClassID)
	assert.Equal(t, int64(3), *store.lastFilter.ClassID)
	assert.Equal(t, model.StatusOnHold, *store.lastFilter.Status)
	assert.Nil(t, store.lastFilter.ClientID)
	assert.Equal(t, 10, store.lastLimit)
	assert.Equal(t, 20, store.lastOffset)

	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.Page)
	assert.Equal(t, 5, env.Pagination.TotalPages)
	assert.Equal(t, 2, env.Pagination.Count)
}

func TestListRejectsUnknownStatus(t *testing.T) {
	app := newTestApp(&stubStore{}, &stubWorkflow{}, nil)

	status, env := do(t, app, "GET", "/progressions?status=archived", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Errors, "status")
}

func TestGetMapsErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, fiber.StatusNotFound},
		{errors.Mark(errors.New("conn refused"), repository.ErrQuery), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := newTestApp(&stubStore{err: tc.err}, &stubWorkflow{}, nil)
		status, env := do(t, app, "GET", "/progressions/9", "")
		assert.Equal(t, tc.want, status)
		assert.False(t, env.Success)
		assert.NotContains(t, env.Message, "conn refused")
	}
}

func TestGetRejectsBadID(t *testing.T) {
	app := newTestApp(&stubStore{}, &stubWorkflow{}, nil)
	status, env := do(t, app, "GET", "/progressions/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", env.ErrorCode)
}

func TestCreateValidatesAndStarts(t *testing.T) {
	wf := &stubWorkflow{startID: 11}
	app := newTestApp(&stubStore{}, wf, nil)

	status, env := do(t, app, "POST", "/progressions", `{"learner_id":42,"class_type_subject_id":7,"start_date":"2026-11-02"}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, map[string]any{"tracking_id": float64(11)}, env.Data)
	assert.Equal(t, int64(42), wf.startIn.LearnerID)
	require.NotNil(t, wf.startIn.StartDate)
	assert.Equal(t, "2026-11-02", wf.startIn.StartDate.Format("2006-01-02"))

	status, env = do(t, app, "POST", "/progressions", `{"class_type_subject_id":7,"start_date":"02/11/2026"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Errors, "learner_id")
	assert.Contains(t, env.Errors, "start_date")
}

func TestCreateConflict(t *testing.T) {
	wf := &stubWorkflow{err: errors.Wrap(repository.ErrAlreadyInProgress, "learner 42")}
	app := newTestApp(&stubStore{}, wf, nil)

	status, env := do(t, app, "POST", "/progressions", `{"learner_id":42,"class_type_subject_id":7}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.ErrorCode)
}

func TestPatchEmptyBodyIsValidationError(t *testing.T) {
	store := &stubStore{err: repository.ErrNoValidColumns}
	app := newTestApp(store, &stubWorkflow{}, nil)

	status, _ := do(t, app, "PATCH", "/progressions/9", `{}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Empty(t, store.lastFields)
}

func TestCompleteUsesActorAndMapsPortfolioRule(t *testing.T) {
	wf := &stubWorkflow{}
	app := newTestApp(&stubStore{}, wf, map[string]any{"user_id": int64(5)})

	status, _ := do(t, app, "POST", "/progressions/9/complete", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(9), wf.completed)
	require.NotNil(t, wf.actor)
	assert.Equal(t, int64(5), *wf.actor)

	wf.err = errors.Wrap(service.ErrPortfolioRequired, "tracking 9")
	status, env := do(t, app, "POST", "/progressions/9/complete", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Message, "portfolio")
}

func TestLearnerCurrentNoneIsNullData(t *testing.T) {
	app := newTestApp(&stubStore{}, &stubWorkflow{}, nil)
	status, env := do(t, app, "GET", "/progressions/learner/42/current", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, env.Data)
}

func TestExportCountRejectsInvertedRange(t *testing.T) {
	app := newTestApp(&stubStore{exportRows: 3}, &stubWorkflow{}, nil)

	status, env := do(t, app, "GET", "/progressions/exports/regulatory/count?date_from=2026-05-01&date_to=2026-04-01", "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Errors, "date_from")

	status, env = do(t, app, "GET", "/progressions/exports/regulatory/count?status=completed", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{"count": float64(3)}, env.Data)
}

func TestExportCSVStreamsAttachment(t *testing.T) {
	store := &stubStore{export: []model.RegulatoryExportRow{{
		TrackingID:         9,
		LearnerID:          42,
		FirstName:          "Thandi",
		Surname:            "Mokoena",
		Status:             model.StatusCompleted,
		StartDate:          time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PortfolioSubmitted: "Yes",
	}}}
	app := newTestApp(store, &stubWorkflow{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/progressions/exports/regulatory?status=completed", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename="regulatory-export-`)
	require.NotNil(t, store.lastReport.Status)
	assert.Equal(t, model.StatusCompleted, *store.lastReport.Status)

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, service.RegulatoryHeader, records[0])
	assert.Equal(t, []string{"9", "42", "Thandi", "Mokoena"}, records[1][:4])
}

func TestExportCSVQueryFailureIsNotADownload(t *testing.T) {
	store := &stubStore{err: errors.Mark(errors.New("statement timeout"), repository.ErrQuery)}
	app := newTestApp(store, &stubWorkflow{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/progressions/exports/regulatory", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Empty(t, resp.Header.Get("Content-Disposition"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Failed to build regulatory export", env.Message)
}
