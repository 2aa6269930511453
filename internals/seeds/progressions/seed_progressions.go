package progressions

import (
	"context"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// ProgressionSeed is one fixture row. Hours are the starting rollup.
type ProgressionSeed struct {
	LearnerID          int64   `json:"learner_id"`
	ClassTypeSubjectID int64   `json:"class_type_subject_id"`
	ClassID            *int64  `json:"class_id"`
	Status             string  `json:"status"`
	StartDate          string  `json:"start_date"`
	CompletionDate     *string `json:"completion_date"`
	HoursTrained       float64 `json:"hours_trained"`
	HoursPresent       float64 `json:"hours_present"`
	PortfolioFilePath  *string `json:"portfolio_file_path"`
	Notes              *string `json:"notes"`
}

type seedKey struct {
	LearnerID          int64
	ClassTypeSubjectID int64
}

// existingRows is what the table already holds, as far as seeding cares.
type existingRows struct {
	pairs map[seedKey]bool
	// learners with an in_progress row; uq_lpt_learner_in_progress allows one
	inProgress map[int64]bool
}

func newExistingRows() existingRows {
	return existingRows{pairs: map[seedKey]bool{}, inProgress: map[int64]bool{}}
}

func LoadProgressionSeeds(filePath string) ([]ProgressionSeed, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filePath)
	}
	var seeds []ProgressionSeed
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return nil, errors.Wrapf(err, "decode %s", filePath)
	}
	return seeds, nil
}

// BuildNew converts fixtures into models, skipping pairs that already exist
// and rejecting rows the schema would refuse. An in_progress fixture for a
// learner who already has one in the table is skipped; two in_progress
// fixtures for one learner are an error, since either would fail the batch.
func BuildNew(seeds []ProgressionSeed, existing existingRows) ([]model.LearnerProgressionTracking, error) {
	out := make([]model.LearnerProgressionTracking, 0, len(seeds))
	inFile := map[int64]int{}
	for i, s := range seeds {
		key := seedKey{s.LearnerID, s.ClassTypeSubjectID}
		if existing.pairs[key] {
			logger.Logger.Debugw("seed exists, skipped", "learner_id", s.LearnerID, "class_type_subject_id", s.ClassTypeSubjectID)
			continue
		}

		status := model.Status(s.Status)
		if s.Status == "" {
			status = model.StatusInProgress
		}
		if !status.Valid() {
			return nil, errors.Newf("seed %d: invalid status %q", i, s.Status)
		}
		if status == model.StatusInProgress {
			if existing.inProgress[s.LearnerID] {
				logger.Logger.Warnw("seed skipped, learner already in progress",
					"seed", i, "learner_id", s.LearnerID, "class_type_subject_id", s.ClassTypeSubjectID)
				continue
			}
			if first, dup := inFile[s.LearnerID]; dup {
				return nil, errors.Newf("seed %d: learner %d already in progress at seed %d", i, s.LearnerID, first)
			}
			inFile[s.LearnerID] = i
		}
		existing.pairs[key] = true

		start, err := time.Parse("2006-01-02", s.StartDate)
		if err != nil {
			return nil, errors.Wrapf(err, "seed %d: start_date", i)
		}
		if s.HoursPresent > s.HoursTrained {
			return nil, errors.Newf("seed %d: hours_present exceeds hours_trained", i)
		}

		row := model.LearnerProgressionTracking{
			LearnerID:          s.LearnerID,
			ClassTypeSubjectID: s.ClassTypeSubjectID,
			ClassID:            s.ClassID,
			Status:             status,
			StartDate:          datatypes.Date(start),
			HoursTrained:       s.HoursTrained,
			HoursPresent:       s.HoursPresent,
			HoursAbsent:        s.HoursTrained - s.HoursPresent,
			PortfolioFilePath:  s.PortfolioFilePath,
			Notes:              s.Notes,
		}
		if s.CompletionDate != nil {
			done, err := time.Parse("2006-01-02", *s.CompletionDate)
			if err != nil {
				return nil, errors.Wrapf(err, "seed %d: completion_date", i)
			}
			row.CompletionDate = &done
		}
		out = append(out, row)
	}
	return out, nil
}

// SeedProgressionsFromJSON inserts fixtures that are not in the table yet and
// returns how many were written.
func SeedProgressionsFromJSON(ctx context.Context, db *gorm.DB, filePath string) (int, error) {
	logger.Logger.Infow("reading seed file", "path", filePath)
	seeds, err := LoadProgressionSeeds(filePath)
	if err != nil {
		return 0, err
	}

	var current []struct {
		LearnerID          int64
		ClassTypeSubjectID int64
		Status             model.Status
	}
	if err := db.WithContext(ctx).Model(&model.LearnerProgressionTracking{}).
		Select("learner_id, class_type_subject_id, status").
		Scan(&current).Error; err != nil {
		return 0, errors.Wrap(err, "load existing progressions")
	}
	existing := newExistingRows()
	for _, c := range current {
		existing.pairs[seedKey{c.LearnerID, c.ClassTypeSubjectID}] = true
		if c.Status == model.StatusInProgress {
			existing.inProgress[c.LearnerID] = true
		}
	}

	rows, err := BuildNew(seeds, existing)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		logger.Logger.Info("no new progressions to seed")
		return 0, nil
	}
	if err := db.WithContext(ctx).CreateInBatches(&rows, 100).Error; err != nil {
		return 0, errors.Wrap(err, "insert progressions")
	}
	logger.Logger.Infow("progressions seeded", "count", len(rows))
	return len(rows), nil
}
