package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

var (
	ErrPortfolioRequired = errors.New("portfolio must be submitted before completion")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrInvalidHours      = errors.New("hours present cannot exceed hours trained")
)

// Repository is the persistence surface the service needs.
type Repository interface {
	FindByID(ctx context.Context, trackingID int64) (*model.ProgressionRow, error)
	FindCurrentForLearner(ctx context.Context, learnerID int64) (*model.ProgressionRow, error)
	Insert(ctx context.Context, data repository.Fields) (int64, error)
	Update(ctx context.Context, trackingID int64, data repository.Fields) error

	LogHours(ctx context.Context, data repository.Fields) (int64, error)
	RecomputeHours(ctx context.Context, trackingID int64) error
	DeleteHoursLogBySessionID(ctx context.Context, sessionID int64) ([]int64, error)

	SavePortfolioFile(ctx context.Context, trackingID int64, meta repository.PortfolioFileMeta) (int64, error)

	FindForReport(ctx context.Context, f repository.ReportFilter) ([]model.ProgressionRow, error)
	GetReportSummaryStats(ctx context.Context, f repository.ReportFilter) (model.ReportSummary, error)
}

type ProgressionService struct {
	Repo Repository
	Now  func() time.Time
}

func New(repo Repository) *ProgressionService {
	return &ProgressionService{Repo: repo, Now: time.Now}
}

// KindOf extends repository.KindOf with the service's own sentinels.
func KindOf(err error) repository.ErrorKind {
	switch {
	case errors.IsAny(err, ErrPortfolioRequired, ErrInvalidHours):
		return repository.KindValidation
	case errors.Is(err, ErrInvalidTransition):
		return repository.KindConflict
	default:
		return repository.KindOf(err)
	}
}

func (s *ProgressionService) today() string {
	return s.Now().UTC().Format("2006-01-02")
}

type StartInput struct {
	LearnerID          int64
	ClassTypeSubjectID int64
	ClassID            *int64
	StartDate          *time.Time
	Notes              *string
}

// Start opens a new in_progress record. A learner may only have one.
func (s *ProgressionService) Start(ctx context.Context, in StartInput) (int64, error) {
	cur, err := s.Repo.FindCurrentForLearner(ctx, in.LearnerID)
	if err != nil {
		return 0, err
	}
	if cur != nil {
		return 0, errors.Wrapf(repository.ErrAlreadyInProgress, "learner %d, tracking %d", in.LearnerID, cur.TrackingID)
	}

	fields := repository.Fields{
		"learner_id":            in.LearnerID,
		"class_type_subject_id": in.ClassTypeSubjectID,
		"status":                model.StatusInProgress,
	}
	if in.ClassID != nil {
		fields["class_id"] = *in.ClassID
	}
	if in.StartDate != nil {
		fields["start_date"] = in.StartDate.Format("2006-01-02")
	}
	if in.Notes != nil {
		fields["notes"] = *in.Notes
	}
	return s.Repo.Insert(ctx, fields)
}

type HoursEntry struct {
	LearnerID          int64
	ClassTypeSubjectID int64
	ClassID            *int64
	TrackingID         *int64
	SessionID          *int64
	LogDate            *time.Time
	HoursTrained       float64
	HoursPresent       float64
	Source             model.HoursSource
	CreatedBy          *int64
	Notes              *string
}

// LogHours appends to the ledger and refreshes the linked rollup.
func (s *ProgressionService) LogHours(ctx context.Context, e HoursEntry) (int64, error) {
	if e.HoursTrained < 0 || e.HoursPresent < 0 || e.HoursPresent > e.HoursTrained {
		return 0, errors.Wrapf(ErrInvalidHours, "trained=%.2f present=%.2f", e.HoursTrained, e.HoursPresent)
	}

	fields := repository.Fields{
		"learner_id":            e.LearnerID,
		"class_type_subject_id": e.ClassTypeSubjectID,
		"hours_trained":         e.HoursTrained,
		"hours_present":         e.HoursPresent,
	}
	if e.ClassID != nil {
		fields["class_id"] = *e.ClassID
	}
	if e.TrackingID != nil {
		fields["tracking_id"] = *e.TrackingID
	}
	if e.SessionID != nil {
		fields["session_id"] = *e.SessionID
	}
	if e.LogDate != nil {
		fields["log_date"] = e.LogDate.Format("2006-01-02")
	}
	if e.Source != "" {
		fields["source"] = e.Source
	}
	if e.CreatedBy != nil {
		fields["created_by"] = *e.CreatedBy
	}
	if e.Notes != nil {
		fields["notes"] = *e.Notes
	}

	id, err := s.Repo.LogHours(ctx, fields)
	if err != nil {
		return 0, err
	}
	if e.TrackingID != nil {
		if err := s.Repo.RecomputeHours(ctx, *e.TrackingID); err != nil {
			return id, err
		}
	}
	return id, nil
}

// ReverseSession removes a captured session from the ledger and recomputes
// every rollup it touched. Rollups whose record is gone are skipped.
func (s *ProgressionService) ReverseSession(ctx context.Context, sessionID int64) ([]int64, error) {
	ids, err := s.Repo.DeleteHoursLogBySessionID(ctx, sessionID)
	if err != nil {
		return ids, err
	}

	var combined error
	for _, id := range ids {
		err := s.Repo.RecomputeHours(ctx, id)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrNotFound):
			logger.Logger.Warnw("rollup target missing", "session_id", sessionID, "tracking_id", id)
		default:
			combined = errors.CombineErrors(combined, err)
		}
	}
	return ids, combined
}

// SubmitPortfolio records an uploaded file and stamps the tracking record.
func (s *ProgressionService) SubmitPortfolio(ctx context.Context, trackingID int64, meta repository.PortfolioFileMeta, actor *int64) (int64, error) {
	if _, err := s.Repo.FindByID(ctx, trackingID); err != nil {
		return 0, err
	}
	if actor != nil {
		meta.UploadedBy = actor
	}
	fileID, err := s.Repo.SavePortfolioFile(ctx, trackingID, meta)
	if err != nil {
		return 0, err
	}
	err = s.Repo.Update(ctx, trackingID, repository.Fields{
		"portfolio_file_path":   meta.FilePath,
		"portfolio_uploaded_at": s.Now(),
	})
	return fileID, err
}

// MarkComplete closes an in_progress or on_hold record once its portfolio is in.
func (s *ProgressionService) MarkComplete(ctx context.Context, trackingID int64, actor *int64) error {
	row, err := s.Repo.FindByID(ctx, trackingID)
	if err != nil {
		return err
	}
	if row.Status == model.StatusCompleted {
		return errors.Wrapf(ErrInvalidTransition, "tracking %d already completed", trackingID)
	}
	if !row.HasPortfolio() {
		return errors.Wrapf(ErrPortfolioRequired, "tracking %d", trackingID)
	}

	fields := repository.Fields{
		"status":               model.StatusCompleted,
		"completion_date":      s.today(),
		"marked_complete_date": s.Now(),
	}
	if actor != nil {
		fields["marked_complete_by"] = *actor
	}
	return s.Repo.Update(ctx, trackingID, fields)
}

func (s *ProgressionService) PutOnHold(ctx context.Context, trackingID int64) error {
	return s.transition(ctx, trackingID, model.StatusInProgress, model.StatusOnHold)
}

// Resume puts an on_hold record back in progress. The learner must not have
// started another record meanwhile.
func (s *ProgressionService) Resume(ctx context.Context, trackingID int64) error {
	return s.transition(ctx, trackingID, model.StatusOnHold, model.StatusInProgress)
}

func (s *ProgressionService) transition(ctx context.Context, trackingID int64, from, to model.Status) error {
	row, err := s.Repo.FindByID(ctx, trackingID)
	if err != nil {
		return err
	}
	if row.Status != from {
		return errors.Wrapf(ErrInvalidTransition, "tracking %d: %s -> %s", trackingID, row.Status, to)
	}
	if to == model.StatusInProgress {
		cur, err := s.Repo.FindCurrentForLearner(ctx, row.LearnerID)
		if err != nil {
			return err
		}
		if cur != nil && cur.TrackingID != trackingID {
			return errors.Wrapf(repository.ErrAlreadyInProgress, "learner %d, tracking %d", row.LearnerID, cur.TrackingID)
		}
	}
	return s.Repo.Update(ctx, trackingID, repository.Fields{"status": to})
}

type ReportPage struct {
	Rows    []model.ProgressionRow `json:"rows"`
	Summary model.ReportSummary    `json:"summary"`
}

// Report loads the report rows and header stats concurrently.
func (s *ProgressionService) Report(ctx context.Context, f repository.ReportFilter) (ReportPage, error) {
	page := ReportPage{Rows: []model.ProgressionRow{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.Repo.FindForReport(gctx, f)
		page.Rows = rows
		return err
	})
	g.Go(func() error {
		sum, err := s.Repo.GetReportSummaryStats(gctx, f)
		page.Summary = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return ReportPage{Rows: []model.ProgressionRow{}}, err
	}
	return page, nil
}
