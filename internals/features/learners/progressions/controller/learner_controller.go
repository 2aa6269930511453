package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/dto"
	helper "github.com/yourdesigncoza/wecoza-core-sub001/internals/helpers"
)

// GET /progressions/learner/:learner_id
func (h *ProgressionController) LearnerAll(c *fiber.Ctx) error {
	learnerID, err := helper.ParamInt64(c, "learner_id")
	if err != nil {
		return err
	}
	rows, err := h.Store.FindAllForLearner(c.UserContext(), learnerID)
	if err != nil {
		return writeError(c, err, "Failed to load learner progressions")
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /progressions/learner/:learner_id/current
// data is null when the learner has nothing in progress.
func (h *ProgressionController) LearnerCurrent(c *fiber.Ctx) error {
	learnerID, err := helper.ParamInt64(c, "learner_id")
	if err != nil {
		return err
	}
	row, err := h.Store.FindCurrentForLearner(c.UserContext(), learnerID)
	if err != nil {
		return writeError(c, err, "Failed to load current progression")
	}
	return helper.JsonOK(c, "ok", row)
}

// GET /progressions/learner/:learner_id/history
func (h *ProgressionController) LearnerHistory(c *fiber.Ctx) error {
	learnerID, err := helper.ParamInt64(c, "learner_id")
	if err != nil {
		return err
	}
	rows, err := h.Store.FindHistoryForLearner(c.UserContext(), learnerID)
	if err != nil {
		return writeError(c, err, "Failed to load progression history")
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /progressions/learner/:learner_id/overview
func (h *ProgressionController) LearnerOverview(c *fiber.Ctx) error {
	learnerID, err := helper.ParamInt64(c, "learner_id")
	if err != nil {
		return err
	}
	ov, err := h.Store.GetLearnerOverview(c.UserContext(), learnerID)
	if err != nil {
		return writeError(c, err, "Failed to load learner overview")
	}
	return helper.JsonOK(c, "ok", ov)
}

// GET /progressions/learner/:learner_id/hours?from=&to=
func (h *ProgressionController) LearnerHours(c *fiber.Ctx) error {
	learnerID, err := helper.ParamInt64(c, "learner_id")
	if err != nil {
		return err
	}
	var q dto.DateRangeQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	from, to := q.Bounds()
	rows, err := h.Store.GetHoursLogForLearner(c.UserContext(), learnerID, from, to)
	if err != nil {
		return writeError(c, err, "Failed to load hours log")
	}
	return helper.JsonOK(c, "ok", rows)
}
