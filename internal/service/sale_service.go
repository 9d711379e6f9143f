package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

const defaultListLimit = 100

type SaleItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Items         []SaleItemRequest   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod" validate:"required,oneof=cash card transfer"`
	Seller        string              `json:"seller" validate:"required,max=50"`
}

// RestoredItem tells whether a deleted sale line went back into stock.
type RestoredItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Restored  bool      `json:"restored"`
}

type DeleteSaleResult struct {
	SaleID uuid.UUID      `json:"saleId"`
	Items  []RestoredItem `json:"items"`
}

type SaleService interface {
	Create(ctx context.Context, actor access.Identity, req *CreateSaleRequest) (*model.Sale, error)
	Delete(ctx context.Context, actor access.Identity, id uuid.UUID) (*DeleteSaleResult, error)
	List(ctx context.Context, limit int) ([]model.Sale, error)
	Today(ctx context.Context) ([]model.Sale, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Sale, error)
}

type saleService struct {
	db       *gorm.DB
	products repository.ProductRepository
	sales    repository.SaleRepository
	events   ws.Publisher
	loc      *time.Location
	log      *logger.Logger
	now      func() time.Time
}

func NewSaleService(
	db *gorm.DB,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	events ws.Publisher,
	loc *time.Location,
	log *logger.Logger,
) SaleService {
	return &saleService{
		db:       db,
		products: products,
		sales:    sales,
		events:   events,
		loc:      loc,
		log:      log.WithComponent("sales"),
		now:      time.Now,
	}
}

// Create reserves stock for every line and inserts the sale in one
// transaction. Lines are processed in input order; the first failing line
// aborts the whole sale.
func (s *saleService) Create(ctx context.Context, actor access.Identity, req *CreateSaleRequest) (*model.Sale, error) {
	req.Seller = strings.TrimSpace(req.Seller)
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	sale := &model.Sale{
		PaymentMethod: req.PaymentMethod,
		Seller:        req.Seller,
		Date:          s.now().UTC(),
	}
	sale.CreatedBy = actor.UserID
	sale.UpdatedBy = actor.UserID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]model.SaleItem, 0, len(req.Items))

		for i, line := range req.Items {
			product, err := s.products.LockByID(tx, line.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewProductNotFound(line.ProductID)
			}
			if err != nil {
				return fmt.Errorf("lock product %s: %w", line.ProductID, err)
			}

			if line.Quantity > product.Quantity {
				return apperror.NewInsufficientStock(product.ID, line.Quantity, product.Quantity)
			}

			ok, err := s.products.DecrementStock(tx, product.ID, line.Quantity, actor.UserID)
			if err != nil {
				return fmt.Errorf("decrement stock of %s: %w", product.ID, err)
			}
			if !ok {
				return apperror.NewInsufficientStock(product.ID, line.Quantity, product.Quantity)
			}

			item := model.SaleItem{
				Position:  i,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.SalePrice,
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}

		sale.Items = items
		sale.Total = total
		return s.sales.Create(tx, sale)
	})
	if err != nil {
		if _, ok := apperror.AsAppError(err); ok {
			access.Log(ctx, s.log).Infow("sale rejected", "error", err)
			return nil, err
		}
		return nil, fmt.Errorf("create sale: %w", err)
	}

	access.Log(ctx, s.log).Infow("sale created",
		"sale_id", sale.ID, "items", len(sale.Items), "total", sale.Total.StringFixed(2))

	s.events.Publish(ws.Event{
		Type:    "stock_update",
		Action:  "sale_created",
		Data:    sale,
		Message: fmt.Sprintf("%s sold %d units", sale.Seller, sale.ItemCount()),
	})

	return sale, nil
}

// Delete removes the sale and gives each line's quantity back to its product.
// Lines whose product no longer exists are reported as not restored.
func (s *saleService) Delete(ctx context.Context, actor access.Identity, id uuid.UUID) (*DeleteSaleResult, error) {
	result := &DeleteSaleResult{SaleID: id}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.sales.LockByID(tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewSaleNotFound(id)
		}
		if err != nil {
			return fmt.Errorf("lock sale %s: %w", id, err)
		}

		result.Items = make([]RestoredItem, 0, len(sale.Items))
		for _, item := range sale.Items {
			restored := RestoredItem{ProductID: item.ProductID, Quantity: item.Quantity}

			_, err := s.products.LockByID(tx, item.ProductID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// product deleted since the sale; nothing to give back to
			case err != nil:
				return fmt.Errorf("lock product %s: %w", item.ProductID, err)
			default:
				if err := s.products.IncrementStock(tx, item.ProductID, item.Quantity, actor.UserID); err != nil {
					return fmt.Errorf("restore stock of %s: %w", item.ProductID, err)
				}
				restored.Restored = true
			}
			result.Items = append(result.Items, restored)
		}

		return s.sales.Delete(tx, sale)
	})
	if err != nil {
		if _, ok := apperror.AsAppError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("delete sale: %w", err)
	}

	access.Log(ctx, s.log).Infow("sale deleted", "sale_id", id, "items", len(result.Items))

	s.events.Publish(ws.Event{
		Type:   "stock_update",
		Action: "sale_deleted",
		Data:   result,
	})

	return result, nil
}

func (s *saleService) List(ctx context.Context, limit int) ([]model.Sale, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	sales, err := s.sales.FindAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// Today returns the sales of the current business day.
func (s *saleService) Today(ctx context.Context) ([]model.Sale, error) {
	start, end := dayBounds(s.now(), s.loc)
	sales, err := s.sales.FindBetween(ctx, start, end, false)
	if err != nil {
		return nil, fmt.Errorf("list today's sales: %w", err)
	}
	return sales, nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NewSaleNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}
