package model

import "time"

// ReportSummary is the single-row aggregate behind the report page header.
// A zero value is a valid "no data" summary.
type ReportSummary struct {
	TotalLearners     int64   `gorm:"column:total_learners" json:"total_learners"`
	TotalProgressions int64   `gorm:"column:total_progressions" json:"total_progressions"`
	CompletedCount    int64   `gorm:"column:completed_count" json:"completed_count"`
	InProgressCount   int64   `gorm:"column:in_progress_count" json:"in_progress_count"`
	OnHoldCount       int64   `gorm:"column:on_hold_count" json:"on_hold_count"`
	AvgProgress       float64 `gorm:"column:avg_progress" json:"avg_progress"`
	CompletionRate    float64 `gorm:"-" json:"completion_rate"`
}

// RegulatoryExportRow is the flat projection submitted to accreditation bodies.
type RegulatoryExportRow struct {
	TrackingID          int64      `gorm:"column:tracking_id" json:"tracking_id"`
	LearnerID           int64      `gorm:"column:learner_id" json:"learner_id"`
	FirstName           string     `gorm:"column:first_name" json:"first_name"`
	Surname             string     `gorm:"column:surname" json:"surname"`
	SAIDNumber          *string    `gorm:"column:sa_id_no" json:"sa_id_no,omitempty"`
	PassportNumber      *string    `gorm:"column:passport_number" json:"passport_number,omitempty"`
	EmployerName        *string    `gorm:"column:employer_name" json:"employer_name,omitempty"`
	ClientName          *string    `gorm:"column:client_name" json:"client_name,omitempty"`
	ClassCode           *string    `gorm:"column:class_code" json:"class_code,omitempty"`
	SubjectCode         string     `gorm:"column:subject_code" json:"subject_code"`
	SubjectName         string     `gorm:"column:subject_name" json:"subject_name"`
	SubjectDuration     float64    `gorm:"column:subject_duration" json:"subject_duration"`
	Status              Status     `gorm:"column:status" json:"status"`
	StartDate           time.Time  `gorm:"column:start_date" json:"start_date"`
	CompletionDate      *time.Time `gorm:"column:completion_date" json:"completion_date,omitempty"`
	HoursTrained        float64    `gorm:"column:hours_trained" json:"hours_trained"`
	HoursPresent        float64    `gorm:"column:hours_present" json:"hours_present"`
	HoursAbsent         float64    `gorm:"column:hours_absent" json:"hours_absent"`
	PortfolioSubmitted  string     `gorm:"column:portfolio_submitted" json:"portfolio_submitted"`
	PortfolioUploadedAt *time.Time `gorm:"column:portfolio_uploaded_at" json:"portfolio_uploaded_at,omitempty"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

// LearnerOverview splits a learner's records into the current attempt and
// completed history.
type LearnerOverview struct {
	Current *ProgressionRow  `json:"current"`
	History []ProgressionRow `json:"history"`
}
