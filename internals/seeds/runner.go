package seeds

import (
	"context"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/seeds/progressions"
)

// RunAllSeeds loads every fixture under dir. Existing rows are left alone.
func RunAllSeeds(ctx context.Context, db *gorm.DB, dir string) (int, error) {
	//* Progressions
	return progressions.SeedProgressionsFromJSON(ctx, db, filepath.Join(dir, "progressions", "data_progressions.json"))
}
