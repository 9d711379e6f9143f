package handler

import (
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// GET /api/sales?limit=100
func (h *SaleHandler) List(c *fiber.Ctx) error {
	sales, err := h.service.List(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

// GET /api/sales/today
func (h *SaleHandler) Today(c *fiber.Ctx) error {
	sales, err := h.service.Today(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

// GET /api/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	sale, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(sale)
}

// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sale, err := h.service.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

// DELETE /api/sales/:id
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	result, err := h.service.Delete(c.UserContext(), actor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Sale deleted", "data": result})
}
