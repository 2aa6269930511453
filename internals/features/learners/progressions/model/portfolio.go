package model

import "time"

// LearnerProgressionPortfolio records one uploaded compliance document.
// Replacement is modelled as a new row so history is preserved.
type LearnerProgressionPortfolio struct {
	FileID     int64     `gorm:"column:file_id;primaryKey;autoIncrement" json:"file_id"`
	TrackingID int64     `gorm:"column:tracking_id;not null;index:idx_lpp_tracking" json:"tracking_id"`
	FileName   string    `gorm:"column:file_name;type:varchar(255);not null" json:"file_name"`
	FilePath   string    `gorm:"column:file_path;type:text;not null" json:"file_path"`
	FileType   *string   `gorm:"column:file_type;type:varchar(100)" json:"file_type,omitempty"`
	FileSize   *int64    `gorm:"column:file_size" json:"file_size,omitempty"`
	UploadedBy *int64    `gorm:"column:uploaded_by" json:"uploaded_by,omitempty"`
	UploadedAt time.Time `gorm:"column:uploaded_at;not null" json:"uploaded_at"`
}

func (LearnerProgressionPortfolio) TableName() string { return "learner_progression_portfolios" }
