package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/cache"
	progressionController "github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/controller"
	progressionRepository "github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
	progressionRoutes "github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/route"
	progressionService "github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/service"
)

/* ===================== ADMIN ===================== */
// Learner features behind the /api/a group (JWT required).
func LearnerAdminRoutes(r fiber.Router, db *gorm.DB, loader *cache.Loader) {
	repo := progressionRepository.New(db, loader)
	svc := progressionService.New(repo)
	ctrl := progressionController.NewProgressionController(repo, svc)

	progressionRoutes.ProgressionAdminRoutes(r, ctrl)
}
