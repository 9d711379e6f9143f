package handler

import (
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GET /api/reports
func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := h.service.ListReports(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	return c.JSON(reports)
}

// GET /api/reports/status
func (h *ReportHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// POST /api/reports/generate?date=YYYY-MM-DD
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	result, err := h.service.GenerateForDate(c.UserContext(), c.Query("date"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Report generated", "data": result})
}

// GET /api/reports/summary?date=YYYY-MM-DD&window=daily|range|<N>days
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	report, err := h.service.Summary(c.UserContext(), c.Query("date"), c.Query("window"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	report, err := h.service.SalesReport(c.UserContext(), c.Query("date"), c.Query("window"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *ReportHandler) Expenses(c *fiber.Ctx) error {
	report, err := h.service.ExpensesReport(c.UserContext(), c.Query("date"), c.Query("window"))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	rows, err := h.service.StockReport(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rows)
}
