package repository

import (
	"context"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
)

// PortfolioFileMeta describes an already stored upload.
type PortfolioFileMeta struct {
	FileName   string
	FilePath   string
	FileType   *string
	FileSize   *int64
	UploadedBy *int64
}

func (r *ProgressionRepository) SavePortfolioFile(ctx context.Context, trackingID int64, meta PortfolioFileMeta) (int64, error) {
	if meta.FileName == "" || meta.FilePath == "" {
		return 0, ErrNoValidColumns
	}
	var id int64
	err := r.db(ctx).Raw(`
		INSERT INTO learner_progression_portfolios
			(tracking_id, file_name, file_path, file_type, file_size, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING file_id`,
		trackingID, meta.FileName, meta.FilePath, meta.FileType, meta.FileSize, meta.UploadedBy, r.Now()).
		Scan(&id).Error
	if err != nil {
		return 0, queryFailed("SavePortfolioFile", err)
	}
	r.invalidate(ctx)
	return id, nil
}

func (r *ProgressionRepository) GetPortfolioFiles(ctx context.Context, trackingID int64) ([]model.LearnerProgressionPortfolio, error) {
	rows := []model.LearnerProgressionPortfolio{}
	err := r.db(ctx).Raw(`
		SELECT file_id, tracking_id, file_name, file_path, file_type, file_size, uploaded_by, uploaded_at
		FROM learner_progression_portfolios
		WHERE tracking_id = ?
		ORDER BY uploaded_at DESC, file_id DESC`, trackingID).Scan(&rows).Error
	if err != nil {
		return []model.LearnerProgressionPortfolio{}, queryFailed("GetPortfolioFiles", err)
	}
	return rows, nil
}
