package service

import (
	"context"
	"errors"
	"fmt"

	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/logger"
	"go-pos-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRequest struct {
	Name      string          `json:"name" validate:"required,max=100"`
	Category  string          `json:"category" validate:"required,product_category"`
	Type      string          `json:"type" validate:"required,product_type"`
	Garment   string          `json:"garment" validate:"required,product_garment"`
	Size      string          `json:"size" validate:"required,max=20"`
	Color     string          `json:"color" validate:"max=30"`
	Quantity  int             `json:"quantity" validate:"min=0"`
	CostPrice decimal.Decimal `json:"costPrice"`
	SalePrice decimal.Decimal `json:"salePrice"`
}

func (r *ProductRequest) validate() error {
	if err := validator.Validate(r); err != nil {
		return err
	}
	if r.CostPrice.IsNegative() {
		return apperror.NewValidation("costPrice must not be negative").WithDetail("field", "costPrice")
	}
	if r.SalePrice.IsNegative() {
		return apperror.NewValidation("salePrice must not be negative").WithDetail("field", "salePrice")
	}
	return nil
}

func (r *ProductRequest) apply(p *model.Product) {
	p.Name = r.Name
	p.Category = r.Category
	p.Type = r.Type
	p.Garment = r.Garment
	p.Size = r.Size
	p.Color = r.Color
	p.Quantity = r.Quantity
	p.CostPrice = r.CostPrice
	p.SalePrice = r.SalePrice
}

type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, actor access.Identity, req *ProductRequest) (*model.Product, error)
	Update(ctx context.Context, actor access.Identity, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, actor access.Identity, id uuid.UUID) error
}

type productService struct {
	db       *gorm.DB
	products repository.ProductRepository
	events   ws.Publisher
	log      *logger.Logger
}

func NewProductService(db *gorm.DB, products repository.ProductRepository, events ws.Publisher, log *logger.Logger) ProductService {
	return &productService{
		db:       db,
		products: products,
		events:   events,
		log:      log.WithComponent("products"),
	}
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewProductNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, actor access.Identity, req *ProductRequest) (*model.Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	product := &model.Product{}
	req.apply(product)
	product.CreatedBy = actor.UserID
	product.UpdatedBy = actor.UserID

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	access.Log(ctx, s.log).Infow("product created", "product_id", product.ID, "name", product.Name)
	s.events.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_created",
		Data:    product,
		Message: fmt.Sprintf("product '%s' created", product.Name),
	})
	return product, nil
}

// Update replaces the product's fields under a row lock so it cannot
// interleave with a sale touching the same product.
func (s *productService) Update(ctx context.Context, actor access.Identity, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var updated *model.Product
	var oldQuantity int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.products.LockByID(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewProductNotFound(id)
		}
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}

		oldQuantity = existing.Quantity
		req.apply(existing)
		existing.UpdatedBy = actor.UserID

		if err := tx.Save(existing).Error; err != nil {
			return fmt.Errorf("save product: %w", err)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	access.Log(ctx, s.log).Infow("product updated",
		"product_id", id, "old_quantity", oldQuantity, "new_quantity", updated.Quantity)
	s.events.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "product_updated",
		Data:    updated,
		Message: fmt.Sprintf("product '%s' updated", updated.Name),
	})
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, actor access.Identity, id uuid.UUID) error {
	deleted, err := s.products.Delete(ctx, id, actor.UserID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return apperror.NewProductNotFound(id)
	}

	access.Log(ctx, s.log).Infow("product deleted", "product_id", id)
	s.events.Publish(ws.Event{Type: "stock_update", Action: "product_deleted", Data: map[string]any{"id": id}})
	return nil
}
