package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/dto"
	helper "github.com/yourdesigncoza/wecoza-core-sub001/internals/helpers"
)

// POST /progressions/hours
func (h *ProgressionController) LogHours(c *fiber.Ctx) error {
	var req dto.LogHoursRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validate(&req); err != nil {
		return err
	}
	id, err := h.Workflow.LogHours(c.UserContext(), req.ToEntry(helper.ActorID(c)))
	if err != nil {
		return writeError(c, err, "Failed to log hours")
	}
	return helper.JsonCreated(c, "Hours logged", fiber.Map{"log_id": id})
}

// GET /progressions/:id/hours
func (h *ProgressionController) TrackingHours(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.Store.GetHoursLog(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Failed to load hours log")
	}
	return helper.JsonOK(c, "ok", rows)
}

// DELETE /progressions/hours/session/:session_id
func (h *ProgressionController) ReverseSession(c *fiber.Ctx) error {
	sessionID, err := helper.ParamInt64(c, "session_id")
	if err != nil {
		return err
	}
	ids, err := h.Workflow.ReverseSession(c.UserContext(), sessionID)
	if err != nil {
		return writeError(c, err, "Failed to reverse session hours")
	}
	return helper.JsonDeleted(c, "Session hours reversed", fiber.Map{
		"session_id":   sessionID,
		"tracking_ids": ids,
	})
}

// POST /progressions/:id/portfolio
func (h *ProgressionController) SubmitPortfolio(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	var req dto.PortfolioRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validate(&req); err != nil {
		return err
	}
	fileID, err := h.Workflow.SubmitPortfolio(c.UserContext(), id, req.ToMeta(), helper.ActorID(c))
	if err != nil {
		return writeError(c, err, "Failed to save portfolio")
	}
	return helper.JsonCreated(c, "Portfolio saved", fiber.Map{"file_id": fileID, "tracking_id": id})
}

// GET /progressions/:id/portfolio
func (h *ProgressionController) PortfolioFiles(c *fiber.Ctx) error {
	id, err := helper.ParamInt64(c, "id")
	if err != nil {
		return err
	}
	files, err := h.Store.GetPortfolioFiles(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "Failed to load portfolio files")
	}
	return helper.JsonOK(c, "ok", files)
}
