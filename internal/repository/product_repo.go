package repository

import (
	"context"

	"go-pos-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) (bool, error)
	StockByCategory(ctx context.Context) ([]CategoryStock, error)

	// The methods below take the transaction handle so they run inside the
	// caller's atomic unit.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	DecrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) (bool, error)
	IncrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) error
}

// CategoryStock is the stock report row
type CategoryStock struct {
	Category      string `json:"category"`
	TotalQuantity int64  `json:"totalQuantity"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft-deletes the product; sales that reference it keep their lines.
func (r *productRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).Where("id = ?", id).Update("updated_by", deletedBy).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *productRepo) StockByCategory(ctx context.Context) ([]CategoryStock, error) {
	var rows []CategoryStock
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("category, COALESCE(SUM(quantity), 0) AS total_quantity").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	return rows, err
}

// LockByID reads the product with a row lock held until the transaction ends.
func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock subtracts qty only if enough stock remains. It reports false
// when the guard rejected the update.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_by": updatedBy,
		}).Error
}
