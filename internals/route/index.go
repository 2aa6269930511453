package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/cache"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/configs"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
	authMiddleware "github.com/yourdesigncoza/wecoza-core-sub001/internals/middlewares/auth"
	routeDetails "github.com/yourdesigncoza/wecoza-core-sub001/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, loader *cache.Loader, cfg *configs.Config) {
	startTime = time.Now()

	logger.Logger.Info("setting up base routes")
	BaseRoutes(app, db)

	// ===================== ADMIN =====================
	logger.Logger.Info("setting up ADMIN group (JWT)")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              cfg.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	// ===================== MOUNT ROUTES =====================
	logger.Logger.Info("mounting learner routes")
	routeDetails.LearnerAdminRoutes(admin, db, loader)
}
