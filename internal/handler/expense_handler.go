package handler

import (
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExpenseHandler struct {
	service service.ExpenseService
}

func NewExpenseHandler(s service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: s}
}

func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	expenses, err := h.service.List(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	return c.JSON(expenses)
}

func (h *ExpenseHandler) Today(c *fiber.Ctx) error {
	expenses, err := h.service.Today(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(expenses)
}

func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var req service.ExpenseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	expense, err := h.service.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Expense recorded", "data": expense})
}

func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Expense deleted"})
}
