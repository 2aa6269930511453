package service

import (
	"context"
	"sync"
	"time"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
)

type updateCall struct {
	ID     int64
	Fields repository.Fields
}

// fakeRepo keeps tracking rows in memory and records writes.
type fakeRepo struct {
	mu sync.Mutex

	rows       map[int64]*model.ProgressionRow
	nextID     int64
	inserts    []repository.Fields
	updates    []updateCall
	hours      []repository.Fields
	recomputed []int64
	portfolios []repository.PortfolioFileMeta

	sessionIDs   []int64
	recomputeErr map[int64]error
	reportErr    error
	summaryErr   error
	reportRows   []model.ProgressionRow
	summary      model.ReportSummary
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]*model.ProgressionRow{}, nextID: 100, recomputeErr: map[int64]error{}}
}

func (f *fakeRepo) put(id, learnerID int64, status model.Status, portfolio *string) {
	row := &model.ProgressionRow{}
	row.TrackingID = id
	row.LearnerID = learnerID
	row.Status = status
	row.PortfolioFilePath = portfolio
	f.rows[id] = row
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*model.ProgressionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeRepo) FindCurrentForLearner(_ context.Context, learnerID int64) (*model.ProgressionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.LearnerID == learnerID && row.Status == model.StatusInProgress {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Insert(_ context.Context, data repository.Fields) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, data)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, data repository.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s, ok := data["status"].(model.Status); ok {
		row.Status = s
	}
	f.updates = append(f.updates, updateCall{ID: id, Fields: data})
	return nil
}

func (f *fakeRepo) LogHours(_ context.Context, data repository.Fields) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hours = append(f.hours, data)
	return int64(len(f.hours)), nil
}

func (f *fakeRepo) RecomputeHours(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recomputed = append(f.recomputed, id)
	return f.recomputeErr[id]
}

func (f *fakeRepo) DeleteHoursLogBySessionID(context.Context, int64) ([]int64, error) {
	return f.sessionIDs, nil
}

func (f *fakeRepo) SavePortfolioFile(_ context.Context, _ int64, meta repository.PortfolioFileMeta) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.portfolios = append(f.portfolios, meta)
	return int64(len(f.portfolios)), nil
}

func (f *fakeRepo) FindForReport(ctx context.Context, _ repository.ReportFilter) ([]model.ProgressionRow, error) {
	if f.reportErr != nil {
		return []model.ProgressionRow{}, f.reportErr
	}
	return f.reportRows, nil
}

func (f *fakeRepo) GetReportSummaryStats(ctx context.Context, _ repository.ReportFilter) (model.ReportSummary, error) {
	if f.summaryErr != nil {
		// wait for the sibling to observe cancellation
		select {
		case <-ctx.Done():
		case <-time.After(10 * time.Millisecond):
		}
		return model.ReportSummary{}, f.summaryErr
	}
	return f.summary, nil
}
