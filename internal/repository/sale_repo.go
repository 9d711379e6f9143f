package repository

import (
	"context"
	"time"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	FindAll(ctx context.Context, limit int) ([]model.Sale, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindBetween(ctx context.Context, from, to time.Time, onlyUnprocessed bool) ([]model.Sale, error)
	MarkProcessed(ctx context.Context, ids []uuid.UUID) error

	Create(tx *gorm.DB, sale *model.Sale) error
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	Delete(tx *gorm.DB, sale *model.Sale) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *saleRepo) FindAll(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("date DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindBetween returns sales dated in [from, to), oldest first.
func (r *saleRepo) FindBetween(ctx context.Context, from, to time.Time, onlyUnprocessed bool) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC())
	if onlyUnprocessed {
		q = q.Where("is_processed = ?", false)
	}
	err := q.Order("date ASC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) MarkProcessed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("id IN ?", ids).
		Update("is_processed", true).Error
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", orderedItems).
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// Delete removes the sale and its lines permanently.
func (r *saleRepo) Delete(tx *gorm.DB, sale *model.Sale) error {
	if err := tx.Where("sale_id = ?", sale.ID).Delete(&model.SaleItem{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&model.Sale{}, "id = ?", sale.ID).Error
}
