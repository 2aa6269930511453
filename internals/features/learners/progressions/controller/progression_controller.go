package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/dto"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/model"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/service"
	helper "github.com/yourdesigncoza/wecoza-core-sub001/internals/helpers"
)

// Store is the read/admin surface of the progression repository.
type Store interface {
	FindByID(ctx context.Context, trackingID int64) (*model.ProgressionRow, error)
	FindCurrentForLearner(ctx context.Context, learnerID int64) (*model.ProgressionRow, error)
	FindAllForLearner(ctx context.Context, learnerID int64) ([]model.ProgressionRow, error)
	FindHistoryForLearner(ctx context.Context, learnerID int64) ([]model.ProgressionRow, error)
	GetLearnerOverview(ctx context.Context, learnerID int64) (model.LearnerOverview, error)
	FindByClass(ctx context.Context, classID int64, status *model.Status) ([]model.ProgressionRow, error)
	FindWithFilters(ctx context.Context, f repository.ProgressionFilter, limit, offset int) ([]model.ProgressionRow, error)
	CountWithFilters(ctx context.Context, f repository.ProgressionFilter) (int64, error)
	GetMonthlyProgressions(ctx context.Context, year, month int) ([]model.ProgressionRow, error)
	Update(ctx context.Context, trackingID int64, data repository.Fields) error
	Delete(ctx context.Context, trackingID int64) error

	GetHoursLog(ctx context.Context, trackingID int64) ([]model.HoursLogRow, error)
	GetHoursLogForLearner(ctx context.Context, learnerID int64, from, to *time.Time) ([]model.HoursLogRow, error)
	GetPortfolioFiles(ctx context.Context, trackingID int64) ([]model.LearnerProgressionPortfolio, error)

	GetReportSummaryStats(ctx context.Context, f repository.ReportFilter) (model.ReportSummary, error)
	GetRegulatoryExportCount(ctx context.Context, f repository.ReportFilter) (int64, error)
	FindForRegulatoryExport(ctx context.Context, f repository.ReportFilter) ([]model.RegulatoryExportRow, error)
}

// Workflow is the business surface of the progression service.
type Workflow interface {
	Start(ctx context.Context, in service.StartInput) (int64, error)
	LogHours(ctx context.Context, e service.HoursEntry) (int64, error)
	ReverseSession(ctx context.Context, sessionID int64) ([]int64, error)
	SubmitPortfolio(ctx context.Context, trackingID int64, meta repository.PortfolioFileMeta, actor *int64) (int64, error)
	MarkComplete(ctx context.Context, trackingID int64, actor *int64) error
	PutOnHold(ctx context.Context, trackingID int64) error
	Resume(ctx context.Context, trackingID int64) error
	Report(ctx context.Context, f repository.ReportFilter) (service.ReportPage, error)
}

type ProgressionController struct {
	Store    Store
	Workflow Workflow
}

func NewProgressionController(store Store, workflow Workflow) *ProgressionController {
	return &ProgressionController{Store: store, Workflow: workflow}
}

// =========================================================
// LIST - GET /progressions
// Query: client_id, class_id, class_type_subject_id, learner_id, status, page, per_page
// =========================================================
func (h *ProgressionController) List(c *fiber.Ctx) error {
	var q dto.ProgressionListQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	f := q.ToFilter()
	pg := helper.ResolvePaging(c, 25, 200)

	rows, err := h.Store.FindWithFilters(c.UserContext(), f, pg.Limit, pg.Offset)
	if err != nil {
		return writeError(c, err, "Failed to load progressions")
	}
	total, err := h.Store.CountWithFilters(c.UserContext(), f)
	if err != nil {
		return writeError(c, err, "Failed to count progressions")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromOffset(total, pg.Offset, pg.Limit))
}

// GET /progressions/:id
func (h *ProgressionController) Get(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	row, err := h.Store.FindByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Failed to load progression")
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /progressions
func (h *ProgressionController) Create(c *fiber.Ctx) error {
	var req dto.StartProgressionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Normalize()
	if err := validate(&req); err != nil {
		return err
	}

	id, err := h.Workflow.Start(c.UserContext(), req.ToInput())
	if err != nil {
		return writeError(c, err, "Failed to start progression")
	}
	return helper.JsonCreated(c, "Progression started", fiber.Map{"tracking_id": id})
}

// PATCH /progressions/:id
func (h *ProgressionController) Patch(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProgressionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validate(&req); err != nil {
		return err
	}

	if err := h.Store.Update(c.UserContext(), id, req.ToFields()); err != nil {
		return writeError(c, err, "Failed to update progression")
	}
	return helper.JsonUpdated(c, "Progression updated", fiber.Map{"tracking_id": id})
}

// DELETE /progressions/:id
func (h *ProgressionController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	if err := h.Store.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err, "Failed to delete progression")
	}
	return helper.JsonDeleted(c, "Progression deleted", fiber.Map{"tracking_id": id})
}

// POST /progressions/:id/complete
func (h *ProgressionController) Complete(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	if err := h.Workflow.MarkComplete(c.UserContext(), id, helper.ActorID(c)); err != nil {
		return writeError(c, err, "Failed to complete progression")
	}
	return helper.JsonUpdated(c, "Progression completed", fiber.Map{"tracking_id": id})
}

// POST /progressions/:id/hold
func (h *ProgressionController) Hold(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	if err := h.Workflow.PutOnHold(c.UserContext(), id); err != nil {
		return writeError(c, err, "Failed to put progression on hold")
	}
	return helper.JsonUpdated(c, "Progression on hold", fiber.Map{"tracking_id": id})
}

// POST /progressions/:id/resume
func (h *ProgressionController) Resume(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	if err := h.Workflow.Resume(c.UserContext(), id); err != nil {
		return writeError(c, err, "Failed to resume progression")
	}
	return helper.JsonUpdated(c, "Progression resumed", fiber.Map{"tracking_id": id})
}

// GET /progressions/class/:class_id?status=
func (h *ProgressionController) ByClass(c *fiber.Ctx) error {
	classID, err := helper.ParamInt64(c, "class_id")
	if err != nil {
		return err
	}
	var q dto.StatusQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	rows, err := h.Store.FindByClass(c.UserContext(), classID, q.ToStatus())
	if err != nil {
		return writeError(c, err, "Failed to load class progressions")
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /progressions/monthly/:year/:month
func (h *ProgressionController) Monthly(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "year must be an integer")
	}
	month, err := c.ParamsInt("month")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "month must be an integer")
	}
	rows, err := h.Store.GetMonthlyProgressions(c.UserContext(), year, month)
	if err != nil {
		return writeError(c, err, "Failed to load monthly completions")
	}
	return helper.JsonOK(c, "ok", rows)
}
