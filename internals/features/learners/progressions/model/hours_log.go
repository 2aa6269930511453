package model

import (
	"time"

	"gorm.io/datatypes"
)

type HoursSource string

const (
	SourceManual HoursSource = "manual"
	SourceSystem HoursSource = "system"
)

// LearnerHoursLog is an append-only attendance ledger row; it is the source
// of truth the tracking rollup is derived from.
type LearnerHoursLog struct {
	LogID              int64          `gorm:"column:log_id;primaryKey;autoIncrement" json:"log_id"`
	LearnerID          int64          `gorm:"column:learner_id;not null;index:idx_lhl_learner_date,priority:1" json:"learner_id"`
	ClassTypeSubjectID int64          `gorm:"column:class_type_subject_id;not null" json:"class_type_subject_id"`
	ClassID            *int64         `gorm:"column:class_id" json:"class_id,omitempty"`
	TrackingID         *int64         `gorm:"column:tracking_id;index:idx_lhl_tracking" json:"tracking_id,omitempty"`
	SessionID          *int64         `gorm:"column:session_id;index:idx_lhl_session" json:"session_id,omitempty"`
	LogDate            datatypes.Date `gorm:"column:log_date;not null;index:idx_lhl_learner_date,priority:2" json:"log_date"`
	HoursTrained       float64        `gorm:"column:hours_trained;type:numeric(8,2);not null;default:0" json:"hours_trained"`
	HoursPresent       float64        `gorm:"column:hours_present;type:numeric(8,2);not null;default:0" json:"hours_present"`
	Source             HoursSource    `gorm:"column:source;type:varchar(20);not null;default:'manual'" json:"source"`
	CreatedBy          *int64         `gorm:"column:created_by" json:"created_by,omitempty"`
	Notes              *string        `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (LearnerHoursLog) TableName() string { return "learner_hours_log" }

// HoursLogRow is a ledger row with the subject it was captured against.
type HoursLogRow struct {
	LearnerHoursLog

	SubjectName string  `gorm:"column:subject_name" json:"subject_name"`
	ClassCode   *string `gorm:"column:class_code" json:"class_code,omitempty"`
}
