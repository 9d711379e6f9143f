package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/logger"
	"go-pos-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseRequest struct {
	Type        string          `json:"type" validate:"required,expense_type"`
	Description string          `json:"description" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount"`
	// Date is a YYYY-MM-DD business day; empty means now.
	Date string `json:"date"`
}

type ExpenseService interface {
	List(ctx context.Context, limit int) ([]model.Expense, error)
	Today(ctx context.Context) ([]model.Expense, error)
	Create(ctx context.Context, actor access.Identity, req *ExpenseRequest) (*model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseService struct {
	expenses repository.ExpenseRepository
	loc      *time.Location
	log      *logger.Logger
	now      func() time.Time
}

func NewExpenseService(expenses repository.ExpenseRepository, loc *time.Location, log *logger.Logger) ExpenseService {
	return &expenseService{
		expenses: expenses,
		loc:      loc,
		log:      log.WithComponent("expenses"),
		now:      time.Now,
	}
}

func (s *expenseService) List(ctx context.Context, limit int) ([]model.Expense, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	expenses, err := s.expenses.FindAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *expenseService) Today(ctx context.Context) ([]model.Expense, error) {
	start, end := dayBounds(s.now(), s.loc)
	expenses, err := s.expenses.FindBetween(ctx, start, end, false)
	if err != nil {
		return nil, fmt.Errorf("list today's expenses: %w", err)
	}
	return expenses, nil
}

func (s *expenseService) Create(ctx context.Context, actor access.Identity, req *ExpenseRequest) (*model.Expense, error) {
	req.Description = strings.TrimSpace(req.Description)
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be greater than zero").WithDetail("field", "amount")
	}

	date := s.now()
	if req.Date != "" {
		day, err := parseDay(req.Date, date, s.loc)
		if err != nil {
			return nil, err
		}
		date = day
	}

	expense := &model.Expense{
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date.UTC(),
	}
	expense.CreatedBy = actor.UserID
	expense.UpdatedBy = actor.UserID

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	access.Log(ctx, s.log).Infow("expense created", "expense_id", expense.ID, "amount", expense.Amount.StringFixed(2))
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.expenses.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if !deleted {
		return apperror.NewNotFound("expense", id)
	}
	access.Log(ctx, s.log).Infow("expense deleted", "expense_id", id)
	return nil
}
