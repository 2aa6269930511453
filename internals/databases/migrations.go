package database

import (
	"context"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

// migrationStatements run after AutoMigrate; each must be idempotent.
var migrationStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_lpt_learner_in_progress
		ON learner_lp_tracking (learner_id) WHERE status = 'in_progress'`,
	`ALTER TABLE learner_hours_log DROP CONSTRAINT IF EXISTS chk_lhl_source`,
	`ALTER TABLE learner_hours_log ADD CONSTRAINT chk_lhl_source CHECK (source IN ('manual', 'system'))`,
	`ALTER TABLE learner_lp_tracking DROP CONSTRAINT IF EXISTS chk_lpt_status`,
	`ALTER TABLE learner_lp_tracking ADD CONSTRAINT chk_lpt_status CHECK (status IN ('in_progress', 'completed', 'on_hold'))`,
}

// Migrate creates the progression tables. Joined reference tables
// (learners, classes, clients, ...) belong to other services and are not touched.
func Migrate(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	if err := tx.AutoMigrate(
		&model.LearnerProgressionTracking{},
		&model.LearnerHoursLog{},
		&model.LearnerProgressionPortfolio{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	for _, stmt := range migrationStatements {
		if err := tx.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "migration statement")
		}
	}
	logger.Logger.Infow("migrations applied", "tables", 3, "statements", len(migrationStatements))
	return nil
}
