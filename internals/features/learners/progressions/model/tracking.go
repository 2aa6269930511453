package model

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	default:
		return false
	}
}

// LearnerProgressionTracking is one learner's enrollment attempt in one
// subject within one class. Hours columns are a rollup of learner_hours_log.
type LearnerProgressionTracking struct {
	TrackingID         int64          `gorm:"column:tracking_id;primaryKey;autoIncrement" json:"tracking_id"`
	LearnerID          int64          `gorm:"column:learner_id;not null;index:idx_lpt_learner" json:"learner_id"`
	ClassTypeSubjectID int64          `gorm:"column:class_type_subject_id;not null" json:"class_type_subject_id"`
	ClassID            *int64         `gorm:"column:class_id;index:idx_lpt_class" json:"class_id,omitempty"`
	HoursTrained       float64        `gorm:"column:hours_trained;type:numeric(8,2);not null;default:0" json:"hours_trained"`
	HoursPresent       float64        `gorm:"column:hours_present;type:numeric(8,2);not null;default:0" json:"hours_present"`
	HoursAbsent        float64        `gorm:"column:hours_absent;type:numeric(8,2);not null;default:0" json:"hours_absent"`
	Status             Status         `gorm:"column:status;type:varchar(20);not null;default:'in_progress'" json:"status"`
	StartDate          datatypes.Date `gorm:"column:start_date;not null" json:"start_date"`
	CompletionDate     *time.Time     `gorm:"column:completion_date;type:date" json:"completion_date,omitempty"`
	PortfolioFilePath  *string        `gorm:"column:portfolio_file_path;type:text" json:"portfolio_file_path,omitempty"`
	PortfolioUploaded  *time.Time     `gorm:"column:portfolio_uploaded_at" json:"portfolio_uploaded_at,omitempty"`
	MarkedCompleteBy   *int64         `gorm:"column:marked_complete_by" json:"marked_complete_by,omitempty"`
	MarkedCompleteDate *time.Time     `gorm:"column:marked_complete_date" json:"marked_complete_date,omitempty"`
	Notes              *string        `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LearnerProgressionTracking) TableName() string { return "learner_lp_tracking" }

// HasPortfolio reports whether a compliance portfolio has been submitted.
func (t LearnerProgressionTracking) HasPortfolio() bool {
	return t.PortfolioFilePath != nil && *t.PortfolioFilePath != ""
}

// ProgressionRow is a tracking record enriched with display context.
type ProgressionRow struct {
	LearnerProgressionTracking

	LearnerFirstName   string  `gorm:"column:learner_first_name" json:"learner_first_name"`
	LearnerSurname     string  `gorm:"column:learner_surname" json:"learner_surname"`
	SubjectName        string  `gorm:"column:subject_name" json:"subject_name"`
	SubjectCode        string  `gorm:"column:subject_code" json:"subject_code"`
	SubjectDuration    float64 `gorm:"column:subject_duration" json:"subject_duration"`
	ClassCode          *string `gorm:"column:class_code" json:"class_code,omitempty"`
	ClientID           *int64  `gorm:"column:client_id" json:"client_id,omitempty"`
	ClientName         *string `gorm:"column:client_name" json:"client_name,omitempty"`
	EmployerName       *string `gorm:"column:employer_name" json:"employer_name,omitempty"`
	ProgressPercentage float64 `gorm:"column:progress_percentage" json:"progress_percentage"`
}

// ProgressPercentage mirrors the SQL projection: hours present over subject
// duration, capped at 100, zero when the duration is unknown.
func ProgressPercentage(hoursPresent, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	p := hoursPresent / duration * 100
	if p > 100 {
		return 100
	}
	return p
}
