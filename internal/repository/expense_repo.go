package repository

import (
	"context"
	"time"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindAll(ctx context.Context, limit int) ([]model.Expense, error)
	FindBetween(ctx context.Context, from, to time.Time, onlyUnprocessed bool) ([]model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	MarkProcessed(ctx context.Context, ids []uuid.UUID) error
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepo) FindAll(ctx context.Context, limit int) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&expenses).Error
	return expenses, err
}

// FindBetween returns expenses dated in [from, to), oldest first.
func (r *expenseRepo) FindBetween(ctx context.Context, from, to time.Time, onlyUnprocessed bool) ([]model.Expense, error) {
	var expenses []model.Expense
	q := r.db.WithContext(ctx).Where("date >= ? AND date < ?", from.UTC(), to.UTC())
	if onlyUnprocessed {
		q = q.Where("is_processed = ?", false)
	}
	err := q.Order("date ASC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Expense{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *expenseRepo) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Expense{}).
		Where("id IN ?", ids).
		Update("is_processed", true).Error
}
