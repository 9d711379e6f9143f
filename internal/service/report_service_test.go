package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	p := &model.Product{}
	sale := func(method model.PaymentMethod) model.Sale {
		items := []model.SaleItem{line(p, 2, "10"), line(p, 1, "5")}
		return model.Sale{Items: items, Total: decimal.NewFromInt(25), PaymentMethod: method}
	}

	agg := Aggregate(
		[]model.Sale{sale(model.PaymentCash), sale(model.PaymentCard)},
		[]model.Expense{{Amount: decimal.NewFromInt(8)}},
	)

	assert.Equal(t, 6, agg.TotalProductsSold)
	assertMoney(t, "50", agg.TotalSales)
	assertMoney(t, "8", agg.TotalExpenses)
	assertMoney(t, "42", agg.NetProfit)
	require.Len(t, agg.SalesByPaymentMethod, 2)
	assertMoney(t, "25", agg.SalesByPaymentMethod["cash"])
	assertMoney(t, "25", agg.SalesByPaymentMethod["card"])
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil, nil)

	assert.Zero(t, agg.TotalProductsSold)
	assert.True(t, agg.TotalSales.IsZero())
	assert.True(t, agg.TotalExpenses.IsZero())
	assert.True(t, agg.NetProfit.IsZero())
	assert.NotNil(t, agg.SalesByPaymentMethod)
	assert.Empty(t, agg.SalesByPaymentMethod)
}

func TestAggregate_NegativeNetProfit(t *testing.T) {
	agg := Aggregate(
		[]model.Sale{{Total: decimal.NewFromInt(10), PaymentMethod: model.PaymentCash}},
		[]model.Expense{{Amount: decimal.RequireFromString("12.50")}},
	)
	assertMoney(t, "-2.5", agg.NetProfit)
}

// businessDay returns noon of the given day in the fixture's timezone.
func (f *fixture) businessDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, f.loc)
}

func TestGenerateDailyReport_EmptyDay(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	day := f.businessDay(2026, 3, 1)

	result, err := svc.GenerateDailyReport(context.Background(), &day)
	require.NoError(t, err)

	assert.Equal(t, JobPersisted, result.State)
	assert.Equal(t, "2026-03-01", result.Date)
	require.NotNil(t, result.Report)
	assert.Zero(t, result.Report.TotalProductsSold)
	assert.True(t, result.Report.TotalSales.IsZero())
	assert.True(t, result.Report.TotalExpenses.IsZero())
	assert.True(t, result.Report.NetProfit.IsZero())
	assert.Empty(t, result.Report.SalesByPaymentMethod)

	stored, err := f.reports.FindByDate(context.Background(), "2026-03-01", model.ReportDaily)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.SalesByPaymentMethod)
}

func TestGenerateDailyReport_AggregatesAndMarksProcessed(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	p := f.product(t, "Shirt", 10, "10")
	day := f.businessDay(2026, 3, 1)

	s1 := f.seedSale(t, day, model.PaymentCash, false, line(p, 2, "10"), line(p, 1, "5"))
	s2 := f.seedSale(t, day.Add(time.Hour), model.PaymentCard, false, line(p, 2, "10"), line(p, 1, "5"))
	e1 := f.seedExpense(t, day, "Servicios", "8", false)

	result, err := svc.GenerateDailyReport(context.Background(), &day)
	require.NoError(t, err)

	r := result.Report
	assert.Equal(t, 6, r.TotalProductsSold)
	assertMoney(t, "50", r.TotalSales)
	assertMoney(t, "8", r.TotalExpenses)
	assertMoney(t, "42", r.NetProfit)
	assertMoney(t, "25", r.SalesByPaymentMethod["cash"])
	assertMoney(t, "25", r.SalesByPaymentMethod["card"])
	assert.Equal(t, 2, result.SalesProcessed)
	assert.Equal(t, 1, result.ExpensesProcessed)

	for _, id := range []any{s1.ID, s2.ID} {
		var s model.Sale
		require.NoError(t, f.db.First(&s, "id = ?", id).Error)
		assert.True(t, s.IsProcessed)
	}
	var e model.Expense
	require.NoError(t, f.db.First(&e, "id = ?", e1.ID).Error)
	assert.True(t, e.IsProcessed)

	stored, err := f.reports.FindByDate(context.Background(), "2026-03-01", model.ReportDaily)
	require.NoError(t, err)
	assertMoney(t, "42", stored.NetProfit)
	assertMoney(t, "25", stored.SalesByPaymentMethod["card"])
	assert.Contains(t, f.events.actions(), "report_generated")
}

func TestGenerateDailyReport_SecondRunIsDuplicate(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	p := f.product(t, "Shirt", 10, "10")
	day := f.businessDay(2026, 3, 1)
	f.seedSale(t, day, model.PaymentCash, false, line(p, 1, "10"))

	_, err := svc.GenerateDailyReport(context.Background(), &day)
	require.NoError(t, err)

	// a late sale must not be folded into a second report for the day
	f.seedSale(t, day.Add(2*time.Hour), model.PaymentCash, false, line(p, 1, "10"))

	result, err := svc.GenerateDailyReport(context.Background(), &day)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicateReport))
	assert.Equal(t, JobSkipped, result.State)
	assert.Nil(t, result.Report)

	var count int64
	require.NoError(t, f.db.Model(&model.Report{}).Where("date = ?", "2026-03-01").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := f.reports.FindByDate(context.Background(), "2026-03-01", model.ReportDaily)
	require.NoError(t, err)
	assertMoney(t, "10", stored.TotalSales)

	status := svc.Status()
	assert.Equal(t, JobSkipped, status.State)
	require.NotNil(t, status.LastRun)
	assert.Equal(t, "2026-03-01", status.LastRun.Date)
}

func TestGenerateDailyReport_IgnoresProcessedRecords(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	p := f.product(t, "Shirt", 10, "10")
	day := f.businessDay(2026, 3, 1)

	f.seedSale(t, day, model.PaymentCash, true, line(p, 3, "10"))
	f.seedSale(t, day, model.PaymentCash, false, line(p, 1, "10"))
	f.seedExpense(t, day, "Alquiler", "100", true)

	result, err := svc.GenerateDailyReport(context.Background(), &day)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.TotalProductsSold)
	assertMoney(t, "10", result.Report.TotalSales)
	assert.True(t, result.Report.TotalExpenses.IsZero())
}

func TestGenerateDailyReport_BusinessTimezoneBoundaries(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	p := f.product(t, "Shirt", 10, "10")

	// Buenos Aires is UTC-3: 02:30Z is still Feb 28 there, 03:30Z is March 1.
	f.seedSale(t, time.Date(2026, 3, 1, 2, 30, 0, 0, time.UTC), model.PaymentCash, false, line(p, 1, "7"))
	f.seedSale(t, time.Date(2026, 3, 1, 3, 30, 0, 0, time.UTC), model.PaymentCash, false, line(p, 1, "11"))
	// 02:59Z on March 2 is the last minute of March 1 locally.
	f.seedSale(t, time.Date(2026, 3, 2, 2, 59, 0, 0, time.UTC), model.PaymentCard, false, line(p, 1, "13"))

	day := f.businessDay(2026, 3, 1)
	result, err := svc.GenerateDailyReport(context.Background(), &day)
	require.NoError(t, err)

	assertMoney(t, "24", result.Report.TotalSales)
	assert.Equal(t, 2, result.Report.TotalProductsSold)
}

func TestGenerateDailyReport_DefaultsToToday(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC) }

	result, err := svc.GenerateDailyReport(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", result.Date)
}

func TestGenerateForDate(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()

	result, err := svc.GenerateForDate(context.Background(), "2026-02-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-14", result.Date)

	_, err = svc.GenerateForDate(context.Background(), "14/02/2026")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestStatus_IdleBeforeFirstRun(t *testing.T) {
	f := newFixture(t)
	status := f.reportService().Status()
	assert.Equal(t, JobIdle, status.State)
	assert.Nil(t, status.LastRun)
}

func TestSummary_Windows(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	p := f.product(t, "Shirt", 10, "10")

	f.seedSale(t, f.businessDay(2026, 3, 7), model.PaymentCash, false, line(p, 1, "100"))
	f.seedSale(t, f.businessDay(2026, 3, 8), model.PaymentCash, true, line(p, 1, "10"))
	f.seedSale(t, f.businessDay(2026, 3, 10), model.PaymentCard, false, line(p, 2, "10"))
	f.seedExpense(t, f.businessDay(2026, 3, 9), "Otros", "5", false)

	daily, err := svc.Summary(context.Background(), "2026-03-10", "daily")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", daily.From)
	assert.Equal(t, "2026-03-10", daily.To)
	assert.Equal(t, 1, daily.Days)
	assertMoney(t, "20", daily.TotalSales)

	three, err := svc.Summary(context.Background(), "2026-03-10", "3days")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", three.From)
	assert.Equal(t, 3, three.Days)
	// processed records are included in on-demand queries
	assertMoney(t, "30", three.TotalSales)
	assertMoney(t, "5", three.TotalExpenses)
	assertMoney(t, "25", three.NetProfit)
	assert.Equal(t, 3, three.TotalProductsSold)

	ranged, err := svc.Summary(context.Background(), "2026-03-10", "range")
	require.NoError(t, err)
	assert.Equal(t, 20, ranged.Days)
	assertMoney(t, "130", ranged.TotalSales)
}

func TestSummary_EmptyWindow(t *testing.T) {
	f := newFixture(t)
	report, err := f.reportService().Summary(context.Background(), "2026-01-01", "")
	require.NoError(t, err)

	assert.True(t, report.TotalSales.IsZero())
	assert.True(t, report.NetProfit.IsZero())
	assert.Empty(t, report.SalesByPaymentMethod)
}

func TestSummary_InvalidInput(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()

	tests := []struct {
		name, date, window string
	}{
		{"bad date", "2026-13-01", "daily"},
		{"bad window", "2026-03-01", "weekly"},
		{"zero days", "2026-03-01", "0days"},
		{"too many days", "2026-03-01", "400days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Summary(context.Background(), tt.date, tt.window)
			assert.True(t, apperror.HasCode(err, apperror.CodeValidation), "got %v", err)
		})
	}
}

func TestSalesAndExpensesReports(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	p := f.product(t, "Shirt", 10, "10")
	day := f.businessDay(2026, 3, 1)

	f.seedSale(t, day, model.PaymentCash, false, line(p, 1, "10"))
	f.seedExpense(t, day, "Servicios", "3", false)
	f.seedExpense(t, day, "Servicios", "4", false)
	f.seedExpense(t, day, "Compra de Stock", "20", false)

	sales, err := svc.SalesReport(context.Background(), "2026-03-01", "daily")
	require.NoError(t, err)
	assert.Len(t, sales.Sales, 1)
	assertMoney(t, "10", sales.TotalSales)

	expenses, err := svc.ExpensesReport(context.Background(), "2026-03-01", "daily")
	require.NoError(t, err)
	assert.Len(t, expenses.Expenses, 3)
	assertMoney(t, "27", expenses.TotalExpenses)
	assertMoney(t, "7", expenses.ExpensesByType["Servicios"])
	assertMoney(t, "20", expenses.ExpensesByType["Compra de Stock"])
}

func TestStockReport(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()
	f.product(t, "Shirt", 4, "10")
	f.product(t, "Body", 6, "10")
	kid := &model.Product{Name: "Jeans", Category: "Nene/Nena", Type: "Varón", Garment: "Jeans", Size: "8", Quantity: 3}
	require.NoError(t, f.db.Create(kid).Error)

	rows, err := svc.StockReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bebé", rows[0].Category)
	assert.Equal(t, int64(10), rows[0].TotalQuantity)
	assert.Equal(t, "Nene/Nena", rows[1].Category)
	assert.Equal(t, int64(3), rows[1].TotalQuantity)
}

type failingReports struct {
	repository.ReportRepository
}

func (failingReports) Create(context.Context, *model.Report) error {
	return errors.New("disk full")
}

type failingMarkSales struct {
	repository.SaleRepository
}

func (failingMarkSales) MarkProcessed(context.Context, []uuid.UUID) error {
	return errors.New("connection reset")
}

func TestGenerateDailyReport_InsertFailureLeavesRecordsUnprocessed(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(f.sales, f.expenses, failingReports{f.reports}, f.products, f.events,
		f.loc, 20, logger.Nop())
	p := f.product(t, "Shirt", 10, "10")
	day := f.businessDay(2026, 3, 1)
	s1 := f.seedSale(t, day, model.PaymentCash, false, line(p, 1, "10"))
	e1 := f.seedExpense(t, day, "Servicios", "3", false)

	result, err := svc.GenerateDailyReport(context.Background(), &day)
	require.Error(t, err)
	assert.False(t, apperror.HasCode(err, apperror.CodeDuplicateReport))
	assert.Equal(t, JobFailed, result.State)
	assert.Nil(t, result.Report)
	assert.Equal(t, JobFailed, svc.Status().State)

	stored, err := f.reports.FindByDate(context.Background(), "2026-03-01", model.ReportDaily)
	require.NoError(t, err)
	assert.Nil(t, stored)

	var s model.Sale
	require.NoError(t, f.db.First(&s, "id = ?", s1.ID).Error)
	assert.False(t, s.IsProcessed)
	var e model.Expense
	require.NoError(t, f.db.First(&e, "id = ?", e1.ID).Error)
	assert.False(t, e.IsProcessed)
	assert.NotContains(t, f.events.actions(), "report_generated")
}

func TestGenerateDailyReport_MarkFailureStillPersists(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(failingMarkSales{f.sales}, f.expenses, f.reports, f.products, f.events,
		f.loc, 20, logger.Nop())
	p := f.product(t, "Shirt", 10, "10")
	day := f.businessDay(2026, 3, 1)
	s1 := f.seedSale(t, day, model.PaymentCash, false, line(p, 2, "10"))
	e1 := f.seedExpense(t, day, "Servicios", "3", false)

	result, err := svc.GenerateDailyReport(context.Background(), &day)
	require.NoError(t, err)
	assert.Equal(t, JobPersisted, result.State)
	assert.Zero(t, result.SalesProcessed)
	assert.Equal(t, 1, result.ExpensesProcessed)
	require.NotNil(t, result.Report)
	assertMoney(t, "20", result.Report.TotalSales)

	stored, err := f.reports.FindByDate(context.Background(), "2026-03-01", model.ReportDaily)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assertMoney(t, "17", stored.NetProfit)

	var s model.Sale
	require.NoError(t, f.db.First(&s, "id = ?", s1.ID).Error)
	assert.False(t, s.IsProcessed)
	var e model.Expense
	require.NoError(t, f.db.First(&e, "id = ?", e1.ID).Error)
	assert.True(t, e.IsProcessed)
}
