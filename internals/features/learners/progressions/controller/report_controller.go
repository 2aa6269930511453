package controller

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/dto"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/repository"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/features/learners/progressions/service"
	helper "github.com/yourdesigncoza/wecoza-core-sub001/internals/helpers"
	"github.com/yourdesigncoza/wecoza-core-sub001/internals/logger"
)

func reportFilter(c *fiber.Ctx) (repository.ReportFilter, error) {
	var q dto.ReportQuery
	if err := parseQuery(c, &q); err != nil {
		return repository.ReportFilter{}, err
	}
	f, err := q.ToFilter()
	if err != nil {
		return f, &helper.ValidationError{Fields: map[string][]string{"date_from": {"ltefield=date_to"}}}
	}
	return f, nil
}

// GET /progressions/reports
func (h *ProgressionController) Report(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return err
	}
	page, err := h.Workflow.Report(c.UserContext(), f)
	if err != nil {
		return writeError(c, err, "Failed to load report")
	}
	return helper.JsonOK(c, "ok", page)
}

// GET /progressions/reports/summary
func (h *ProgressionController) ReportSummary(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return err
	}
	sum, err := h.Store.GetReportSummaryStats(c.UserContext(), f)
	if err != nil {
		return writeError(c, err, "Failed to load report summary")
	}
	return helper.JsonOK(c, "ok", sum)
}

// GET /progressions/exports/regulatory/count
func (h *ProgressionController) ExportCount(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return err
	}
	n, err := h.Store.GetRegulatoryExportCount(c.UserContext(), f)
	if err != nil {
		return writeError(c, err, "Failed to count export rows")
	}
	return helper.JsonOK(c, "ok", fiber.Map{"count": n})
}

// GET /progressions/exports/regulatory
// Rows are fetched before the response starts so a failed query still gets
// an error status. Only writing the body is streamed.
func (h *ProgressionController) ExportCSV(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return err
	}
	rows, err := h.Store.FindForRegulatoryExport(c.UserContext(), f)
	if err != nil {
		return writeError(c, err, "Failed to build regulatory export")
	}
	reqID := c.Locals("reqid")

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="regulatory-export-%s.csv"`, time.Now().Format("20060102")))
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		n, err := service.WriteRegulatoryRows(w, rows)
		if err != nil {
			logger.Logger.Errorw("regulatory export write failed", "reqid", reqID, "rows", n, "error", err)
			return
		}
		if err := w.Flush(); err != nil {
			logger.Logger.Warnw("regulatory export flush failed", "reqid", reqID, "error", err)
		}
		logger.Logger.Infow("regulatory export streamed", "reqid", reqID, "rows", n)
	})
	return nil
}
