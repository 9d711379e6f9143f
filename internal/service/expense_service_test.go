package service

import (
	"context"
	"testing"
	"time"

	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseService_CreateAndToday(t *testing.T) {
	f := newFixture(t)
	svc := NewExpenseService(f.expenses, f.loc, logger.Nop()).(*expenseService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	today, err := svc.Create(ctx, employeeActor, &ExpenseRequest{
		Type: "Servicios", Description: "  Luz  ", Amount: decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	assert.Equal(t, "Luz", today.Description)
	assert.Equal(t, "emp-1", today.CreatedBy)

	_, err = svc.Create(ctx, employeeActor, &ExpenseRequest{
		Type: "Compra de Stock", Description: "Proveedor", Amount: decimal.NewFromInt(120), Date: "2026-02-27",
	})
	require.NoError(t, err)

	list, err := svc.Today(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, today.ID, list[0].ID)

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExpenseService_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewExpenseService(f.expenses, f.loc, logger.Nop())

	tests := []struct {
		name string
		req  ExpenseRequest
	}{
		{"unknown type", ExpenseRequest{Type: "Viajes", Description: "x", Amount: decimal.NewFromInt(1)}},
		{"zero amount", ExpenseRequest{Type: "Otros", Description: "x", Amount: decimal.Zero}},
		{"negative amount", ExpenseRequest{Type: "Otros", Description: "x", Amount: decimal.NewFromInt(-3)}},
		{"missing description", ExpenseRequest{Type: "Otros", Amount: decimal.NewFromInt(1)}},
		{"bad date", ExpenseRequest{Type: "Otros", Description: "x", Amount: decimal.NewFromInt(1), Date: "ayer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Create(context.Background(), employeeActor, &req)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "got %v", err)
		})
	}
}

func TestExpenseService_Delete(t *testing.T) {
	f := newFixture(t)
	svc := NewExpenseService(f.expenses, f.loc, logger.Nop())
	ctx := context.Background()

	e, err := svc.Create(ctx, adminActor, &ExpenseRequest{Type: "Alquiler", Description: "Local", Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, e.ID))
	assert.True(t, apperror.HasCode(svc.Delete(ctx, e.ID), apperror.CodeNotFound))
	assert.True(t, apperror.HasCode(svc.Delete(ctx, uuid.New()), apperror.CodeNotFound))
}
