package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/constants"
	progressionController "github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/controller"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/middlewares"
	authMiddleware "github.com/yourdesigncoza/wecoza-core-sub001/internals/middlewares/auth"
)

// ProgressionAdminRoutes mounts /progressions on an authenticated group.
// Static segments are registered before /:id.
func ProgressionAdminRoutes(router fiber.Router, ctrl *progressionController.ProgressionController) {
	staff := authMiddleware.RequireRole("progressions", constants.StaffRoles...)
	manager := authMiddleware.RequireRole("progression management", constants.ManagerRoles...)

	g := router.Group("/progressions", staff)

	g.Get("/", ctrl.List)
	g.Post("/", manager, ctrl.Create)

	g.Get("/reports", ctrl.Report)
	g.Get("/reports/summary", ctrl.ReportSummary)
	g.Get("/exports/regulatory/count", manager, ctrl.ExportCount)
	g.Get("/exports/regulatory", manager, middlewares.ExportRateLimiter(), ctrl.ExportCSV)

	g.Get("/class/:class_id", ctrl.ByClass)
	g.Get("/monthly/:year/:month", ctrl.Monthly)

	learner := g.Group("/learner/:learner_id")
	learner.Get("/", ctrl.LearnerAll)
	learner.Get("/current", ctrl.LearnerCurrent)
	learner.Get("/history", ctrl.LearnerHistory)
	learner.Get("/overview", ctrl.LearnerOverview)
	learner.Get("/hours", ctrl.LearnerHours)

	g.Post("/hours", ctrl.LogHours)
	g.Delete("/hours/session/:session_id", manager, ctrl.ReverseSession)

	g.Get("/:id", ctrl.Get)
	g.Patch("/:id", manager, ctrl.Patch)
	g.Delete("/:id", manager, ctrl.Delete)
	g.Post("/:id/complete", manager, ctrl.Complete)
	g.Post("/:id/hold", manager, ctrl.Hold)
	g.Post("/:id/resume", manager, ctrl.Resume)
	g.Get("/:id/hours", ctrl.TrackingHours)
	g.Get("/:id/portfolio", ctrl.PortfolioFiles)
	g.Post("/:id/portfolio", ctrl.SubmitPortfolio)
}
