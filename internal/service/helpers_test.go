package service

import (
	"sync"
	"testing"
	"time"

	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/testutil"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	adminActor    = access.Identity{UserID: "admin-1", Role: access.RoleAdmin}
	employeeActor = access.Identity{UserID: "emp-1", Role: access.RoleEmployee}
)

type eventRecorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *eventRecorder) Publish(evt ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *eventRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	loc      *time.Location
	products repository.ProductRepository
	sales    repository.SaleRepository
	expenses repository.ExpenseRepository
	reports  repository.ReportRepository
	events   *eventRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		loc:      loc,
		products: repository.NewProductRepo(db),
		sales:    repository.NewSaleRepo(db),
		expenses: repository.NewExpenseRepo(db),
		reports:  repository.NewReportRepo(db),
		events:   &eventRecorder{},
	}
}

func (f *fixture) saleService() *saleService {
	return NewSaleService(f.db, f.products, f.sales, f.events, f.loc, logger.Nop()).(*saleService)
}

func (f *fixture) reportService() *reportService {
	return NewReportService(f.sales, f.expenses, f.reports, f.products, f.events, f.loc, 20, logger.Nop()).(*reportService)
}

func (f *fixture) product(t *testing.T, name string, qty int, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:      name,
		Category:  "Bebé",
		Type:      "Unisex",
		Garment:   "Camiseta",
		Size:      "M",
		Quantity:  qty,
		CostPrice: decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		SalePrice: decimal.RequireFromString(price),
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) quantity(t *testing.T, p *model.Product) int {
	t.Helper()
	var got model.Product
	require.NoError(t, f.db.Unscoped().First(&got, "id = ?", p.ID).Error)
	return got.Quantity
}

// seedSale inserts a sale directly, bypassing stock reservation.
func (f *fixture) seedSale(t *testing.T, at time.Time, method model.PaymentMethod, processed bool, lines ...model.SaleItem) *model.Sale {
	t.Helper()
	sale := &model.Sale{
		PaymentMethod: method,
		Seller:        "Alice",
		Date:          at.UTC(),
		IsProcessed:   processed,
	}
	total := decimal.Zero
	for i := range lines {
		lines[i].Position = i
		total = total.Add(lines[i].Subtotal())
	}
	sale.Items = lines
	sale.Total = total
	require.NoError(t, f.db.Create(sale).Error)
	return sale
}

func (f *fixture) seedExpense(t *testing.T, at time.Time, typ, amount string, processed bool) *model.Expense {
	t.Helper()
	e := &model.Expense{
		Type:        typ,
		Description: "test expense",
		Amount:      decimal.RequireFromString(amount),
		Date:        at.UTC(),
		IsProcessed: processed,
	}
	require.NoError(t, f.db.Create(e).Error)
	return e
}

func line(p *model.Product, qty int, unitPrice string) model.SaleItem {
	return model.SaleItem{ProductID: p.ID, Quantity: qty, UnitPrice: decimal.RequireFromString(unitPrice)}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
