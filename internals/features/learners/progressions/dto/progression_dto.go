package dto

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/service"
)

const DateLayout = "2006-01-02"

/* =========================
   REQUEST
   ========================= */

type StartProgressionRequest struct {
	LearnerID          int64   `json:"learner_id"            validate:"required,gt=0"`
	ClassTypeSubjectID int64   `json:"class_type_subject_id" validate:"required,gt=0"`
	ClassID            *int64  `json:"class_id,omitempty"    validate:"omitempty,gt=0"`
	StartDate          *string `json:"start_date,omitempty"  validate:"omitempty,datetime=2006-01-02"`
	Notes              *string `json:"notes,omitempty"       validate:"omitempty,max=2000"`
}

func (r *StartProgressionRequest) Normalize() {
	r.Notes = trimPtr(r.Notes)
	r.StartDate = trimPtr(r.StartDate)
}

func (r StartProgressionRequest) ToInput() service.StartInput {
	return service.StartInput{
		LearnerID:          r.LearnerID,
		ClassTypeSubjectID: r.ClassTypeSubjectID,
		ClassID:            r.ClassID,
		StartDate:          parseDatePtr(r.StartDate),
		Notes:              r.Notes,
	}
}

// UpdateProgressionRequest patches rollup corrections and notes. Status moves
// through the complete/hold/resume endpoints instead.
type UpdateProgressionRequest struct {
	HoursTrained *float64 `json:"hours_trained,omitempty" validate:"omitempty,gte=0"`
	HoursPresent *float64 `json:"hours_present,omitempty" validate:"omitempty,gte=0"`
	HoursAbsent  *float64 `json:"hours_absent,omitempty"  validate:"omitempty,gte=0"`
	Notes        *string  `json:"notes,omitempty"         validate:"omitempty,max=2000"`
}

func (r UpdateProgressionRequest) ToFields() repository.Fields {
	f := repository.Fields{}
	if r.HoursTrained != nil {
		f["hours_trained"] = *r.HoursTrained
	}
	if r.HoursPresent != nil {
		f["hours_present"] = *r.HoursPresent
	}
	if r.HoursAbsent != nil {
		f["hours_absent"] = *r.HoursAbsent
	}
	if r.Notes != nil {
		f["notes"] = strings.TrimSpace(*r.Notes)
	}
	return f
}

type LogHoursRequest struct {
	LearnerID          int64   `json:"learner_id"            validate:"required,gt=0"`
	ClassTypeSubjectID int64   `json:"class_type_subject_id" validate:"required,gt=0"`
	ClassID            *int64  `json:"class_id,omitempty"    validate:"omitempty,gt=0"`
	TrackingID         *int64  `json:"tracking_id,omitempty" validate:"omitempty,gt=0"`
	SessionID          *int64  `json:"session_id,omitempty"  validate:"omitempty,gt=0"`
	LogDate            *string `json:"log_date,omitempty"    validate:"omitempty,datetime=2006-01-02"`
	HoursTrained       float64 `json:"hours_trained"         validate:"gte=0,lte=24"`
	HoursPresent       float64 `json:"hours_present"         validate:"gte=0,ltefield=HoursTrained"`
	Source             string  `json:"source,omitempty"      validate:"omitempty,oneof=manual system"`
	Notes              *string `json:"notes,omitempty"       validate:"omitempty,max=2000"`
}

func (r LogHoursRequest) ToEntry(actor *int64) service.HoursEntry {
	return service.HoursEntry{
		LearnerID:          r.LearnerID,
		ClassTypeSubjectID: r.ClassTypeSubjectID,
		ClassID:            r.ClassID,
		TrackingID:         r.TrackingID,
		SessionID:          r.SessionID,
		LogDate:            parseDatePtr(trimPtr(r.LogDate)),
		HoursTrained:       r.HoursTrained,
		HoursPresent:       r.HoursPresent,
		Source:             model.HoursSource(r.Source),
		CreatedBy:          actor,
		Notes:              trimPtr(r.Notes),
	}
}

// PortfolioRequest registers a file that was already uploaded to storage.
type PortfolioRequest struct {
	FileName string  `json:"file_name"           validate:"required,max=255"`
	FilePath string  `json:"file_path"           validate:"required,max=1024"`
	FileType *string `json:"file_type,omitempty" validate:"omitempty,max=100"`
	FileSize *int64  `json:"file_size,omitempty" validate:"omitempty,gte=0"`
}

func (r PortfolioRequest) ToMeta() repository.PortfolioFileMeta {
	return repository.PortfolioFileMeta{
		FileName: strings.TrimSpace(r.FileName),
		FilePath: strings.TrimSpace(r.FilePath),
		FileType: trimPtr(r.FileType),
		FileSize: r.FileSize,
	}
}

/* =========================
   QUERY
   ========================= */

type ProgressionListQuery struct {
	ClientID           *int64  `query:"client_id"             validate:"omitempty,gt=0"`
	ClassID            *int64  `query:"class_id"              validate:"omitempty,gt=0"`
	ClassTypeSubjectID *int64  `query:"class_type_subject_id" validate:"omitempty,gt=0"`
	LearnerID          *int64  `query:"learner_id"            validate:"omitempty,gt=0"`
	Status             *string `query:"status"                validate:"omitempty,oneof=in_progress completed on_hold"`
}

func (q ProgressionListQuery) ToFilter() repository.ProgressionFilter {
	return repository.ProgressionFilter{
		ClientID:           q.ClientID,
		ClassID:            q.ClassID,
		ClassTypeSubjectID: q.ClassTypeSubjectID,
		LearnerID:          q.LearnerID,
		Status:             statusPtr(q.Status),
	}
}

// ReportQuery backs the report page, the summary header and the regulatory export.
type ReportQuery struct {
	Search     string  `query:"search"      validate:"omitempty,max=100"`
	EmployerID *int64  `query:"employer_id" validate:"omitempty,gt=0"`
	ClientID   *int64  `query:"client_id"   validate:"omitempty,gt=0"`
	Status     *string `query:"status"      validate:"omitempty,oneof=in_progress completed on_hold"`
	DateFrom   *string `query:"date_from"   validate:"omitempty,datetime=2006-01-02"`
	DateTo     *string `query:"date_to"     validate:"omitempty,datetime=2006-01-02"`
}

var ErrDateRange = errors.New("date_from must not be after date_to")

func (q ReportQuery) ToFilter() (repository.ReportFilter, error) {
	f := repository.ReportFilter{
		Search:     strings.TrimSpace(q.Search),
		EmployerID: q.EmployerID,
		ClientID:   q.ClientID,
		Status:     statusPtr(q.Status),
		DateFrom:   parseDatePtr(trimPtr(q.DateFrom)),
		DateTo:     parseDatePtr(trimPtr(q.DateTo)),
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, ErrDateRange
	}
	return f, nil
}

/* =========================
   helpers
   ========================= */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// parseDatePtr expects a value already checked by the datetime validator.
func parseDatePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func statusPtr(s *string) *model.Status {
	if s == nil || *s == "" {
		return nil
	}
	st := model.Status(*s)
	return &st
}

type StatusQuery struct {
	Status *string `query:"status" validate:"omitempty,oneof=in_progress completed on_hold"`
}

func (q StatusQuery) ToStatus() *model.Status { return statusPtr(q.Status) }

type DateRangeQuery struct {
	From *string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   *string `query:"to"   validate:"omitempty,datetime=2006-01-02"`
}

func (q DateRangeQuery) Bounds() (from, to *time.Time) {
	return parseDatePtr(trimPtr(q.From)), parseDatePtr(trimPtr(q.To))
}
