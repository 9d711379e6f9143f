package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-pos-inventory/internal/access"
	"go-pos-inventory/internal/apperror"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/ws"
	"go-pos-inventory/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type JobState string

const (
	JobIdle      JobState = "idle"
	JobComputing JobState = "computing"
	JobPersisted JobState = "persisted"
	JobSkipped   JobState = "skipped"
	JobFailed    JobState = "failed"
)

// RunResult describes one daily report generation.
type RunResult struct {
	Date              string        `json:"date"`
	State             JobState      `json:"state"`
	Report            *model.Report `json:"report,omitempty"`
	SalesProcessed    int           `json:"salesProcessed"`
	ExpensesProcessed int           `json:"expensesProcessed"`
	Error             string        `json:"error,omitempty"`
	StartedAt         time.Time     `json:"startedAt"`
	FinishedAt        time.Time     `json:"finishedAt"`
}

type JobStatus struct {
	State   JobState   `json:"state"`
	LastRun *RunResult `json:"lastRun,omitempty"`
}

// Aggregates is the shape shared by persisted reports and on-demand queries.
type Aggregates struct {
	TotalProductsSold    int                        `json:"totalProductsSold"`
	TotalSales           decimal.Decimal            `json:"totalSales"`
	TotalExpenses        decimal.Decimal            `json:"totalExpenses"`
	NetProfit            decimal.Decimal            `json:"netProfit"`
	SalesByPaymentMethod map[string]decimal.Decimal `json:"salesByPaymentMethod"`
}

// Aggregate folds sales and expenses into totals. Empty input yields zero
// totals and an empty payment method map.
func Aggregate(sales []model.Sale, expenses []model.Expense) Aggregates {
	agg := Aggregates{
		TotalSales:           decimal.Zero,
		TotalExpenses:        decimal.Zero,
		SalesByPaymentMethod: map[string]decimal.Decimal{},
	}
	for _, sale := range sales {
		agg.TotalProductsSold += sale.ItemCount()
		agg.TotalSales = agg.TotalSales.Add(sale.Total)
		method := string(sale.PaymentMethod)
		agg.SalesByPaymentMethod[method] = agg.SalesByPaymentMethod[method].Add(sale.Total)
	}
	for _, expense := range expenses {
		agg.TotalExpenses = agg.TotalExpenses.Add(expense.Amount)
	}
	agg.NetProfit = agg.TotalSales.Sub(agg.TotalExpenses)
	return agg
}

type SummaryReport struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
	Aggregates
}

type SalesReport struct {
	SummaryReport
	Sales []model.Sale `json:"sales"`
}

type ExpensesReport struct {
	From           string                     `json:"from"`
	To             string                     `json:"to"`
	TotalExpenses  decimal.Decimal            `json:"totalExpenses"`
	ExpensesByType map[string]decimal.Decimal `json:"expensesByType"`
	Expenses       []model.Expense            `json:"expenses"`
}

type ReportService interface {
	GenerateDailyReport(ctx context.Context, date *time.Time) (*RunResult, error)
	GenerateForDate(ctx context.Context, key string) (*RunResult, error)
	Status() JobStatus
	ListReports(ctx context.Context, limit int) ([]model.Report, error)

	Summary(ctx context.Context, date, window string) (*SummaryReport, error)
	SalesReport(ctx context.Context, date, window string) (*SalesReport, error)
	ExpensesReport(ctx context.Context, date, window string) (*ExpensesReport, error)
	StockReport(ctx context.Context) ([]repository.CategoryStock, error)
}

type reportService struct {
	sales     repository.SaleRepository
	expenses  repository.ExpenseRepository
	reports   repository.ReportRepository
	products  repository.ProductRepository
	events    ws.Publisher
	loc       *time.Location
	rangeDays int
	log       *logger.Logger
	now       func() time.Time

	runMu sync.Mutex

	statusMu sync.RWMutex
	state    JobState
	last     *RunResult
}

func NewReportService(
	sales repository.SaleRepository,
	expenses repository.ExpenseRepository,
	reports repository.ReportRepository,
	products repository.ProductRepository,
	events ws.Publisher,
	loc *time.Location,
	rangeDays int,
	log *logger.Logger,
) ReportService {
	return &reportService{
		sales:     sales,
		expenses:  expenses,
		reports:   reports,
		products:  products,
		events:    events,
		loc:       loc,
		rangeDays: rangeDays,
		log:       log.WithComponent("reports"),
		now:       time.Now,
		state:     JobIdle,
	}
}

// GenerateDailyReport persists the report of the business day containing
// date (today when nil). Only records not yet folded into a report are
// counted, and they are marked processed once the report is stored.
// An existing report for the day yields a Skipped result and DuplicateReport.
func (s *reportService) GenerateDailyReport(ctx context.Context, date *time.Time) (*RunResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	target := s.now()
	if date != nil {
		target = *date
	}
	start, end := dayBounds(target, s.loc)
	result := &RunResult{
		Date:      start.Format(model.DateLayout),
		StartedAt: s.now(),
	}
	s.setState(JobComputing)

	log := access.Log(ctx, s.log).With("date", result.Date)

	existing, err := s.reports.FindByDate(ctx, result.Date, model.ReportDaily)
	if err != nil {
		return s.fail(result, log, fmt.Errorf("lookup report: %w", err))
	}
	if existing != nil {
		return s.skip(result, log)
	}

	sales, err := s.sales.FindBetween(ctx, start, end, true)
	if err != nil {
		return s.fail(result, log, fmt.Errorf("fetch sales: %w", err))
	}
	expenses, err := s.expenses.FindBetween(ctx, start, end, true)
	if err != nil {
		return s.fail(result, log, fmt.Errorf("fetch expenses: %w", err))
	}

	agg := Aggregate(sales, expenses)
	report := &model.Report{
		Date:                 result.Date,
		Type:                 model.ReportDaily,
		TotalProductsSold:    agg.TotalProductsSold,
		TotalSales:           agg.TotalSales,
		TotalExpenses:        agg.TotalExpenses,
		NetProfit:            agg.NetProfit,
		SalesByPaymentMethod: agg.SalesByPaymentMethod,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.skip(result, log)
		}
		return s.fail(result, log, fmt.Errorf("insert report: %w", err))
	}
	result.Report = report

	// The report is committed. Marking is best-effort: records left
	// unmarked are still excluded from other days by their date.
	saleIDs := make([]uuid.UUID, 0, len(sales))
	for _, sale := range sales {
		saleIDs = append(saleIDs, sale.ID)
	}
	if err := s.sales.MarkProcessed(ctx, saleIDs); err != nil {
		log.Warnw("failed to mark sales processed", "count", len(saleIDs), "error", err)
	} else {
		result.SalesProcessed = len(saleIDs)
	}

	expenseIDs := make([]uuid.UUID, 0, len(expenses))
	for _, expense := range expenses {
		expenseIDs = append(expenseIDs, expense.ID)
	}
	if err := s.expenses.MarkProcessed(ctx, expenseIDs); err != nil {
		log.Warnw("failed to mark expenses processed", "count", len(expenseIDs), "error", err)
	} else {
		result.ExpensesProcessed = len(expenseIDs)
	}

	s.finish(result, JobPersisted)
	log.Infow("daily report persisted",
		"total_sales", report.TotalSales.StringFixed(2),
		"total_expenses", report.TotalExpenses.StringFixed(2),
		"products_sold", report.TotalProductsSold)

	s.events.Publish(ws.Event{Type: "report", Action: "report_generated", Data: report})

	return result, nil
}

// GenerateForDate runs GenerateDailyReport for a YYYY-MM-DD business day.
// An empty key means today.
func (s *reportService) GenerateForDate(ctx context.Context, key string) (*RunResult, error) {
	if key == "" {
		return s.GenerateDailyReport(ctx, nil)
	}
	day, err := parseDay(key, s.now(), s.loc)
	if err != nil {
		return nil, err
	}
	return s.GenerateDailyReport(ctx, &day)
}

func (s *reportService) skip(result *RunResult, log *logger.Logger) (*RunResult, error) {
	err := apperror.NewDuplicateReport(result.Date)
	result.Error = err.Message
	s.finish(result, JobSkipped)
	log.Infow("daily report already exists, skipping")
	return result, err
}

func (s *reportService) fail(result *RunResult, log *logger.Logger, err error) (*RunResult, error) {
	result.Error = err.Error()
	s.finish(result, JobFailed)
	log.Errorw("daily report failed", "error", err)
	return result, err
}

func (s *reportService) setState(state JobState) {
	s.statusMu.Lock()
	s.state = state
	s.statusMu.Unlock()
}

func (s *reportService) finish(result *RunResult, state JobState) {
	result.State = state
	result.FinishedAt = s.now()

	s.statusMu.Lock()
	s.state = state
	s.last = result
	s.statusMu.Unlock()
}

// Status returns the current job state and a copy of the last run.
func (s *reportService) Status() JobStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()

	status := JobStatus{State: s.state}
	if s.last != nil {
		last := *s.last
		status.LastRun = &last
	}
	return status
}

func (s *reportService) ListReports(ctx context.Context, limit int) ([]model.Report, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	reports, err := s.reports.FindAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// window resolves a query into the half-open range of whole business days
// ending with date.
func (s *reportService) window(date, window string) (time.Time, time.Time, int, error) {
	day, err := parseDay(date, s.now(), s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	days, err := windowDays(window, s.rangeDays)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	dayStart, end := dayBounds(day, s.loc)
	return dayStart.AddDate(0, 0, -(days - 1)), end, days, nil
}

func (s *reportService) summary(ctx context.Context, date, window string) (*SummaryReport, []model.Sale, error) {
	from, to, days, err := s.window(date, window)
	if err != nil {
		return nil, nil, err
	}
	sales, err := s.sales.FindBetween(ctx, from, to, false)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch sales: %w", err)
	}
	expenses, err := s.expenses.FindBetween(ctx, from, to, false)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch expenses: %w", err)
	}
	return &SummaryReport{
		From:       from.Format(model.DateLayout),
		To:         to.AddDate(0, 0, -1).Format(model.DateLayout),
		Days:       days,
		Aggregates: Aggregate(sales, expenses),
	}, sales, nil
}

// Summary aggregates every sale and expense in the window, processed or not.
func (s *reportService) Summary(ctx context.Context, date, window string) (*SummaryReport, error) {
	report, _, err := s.summary(ctx, date, window)
	return report, err
}

func (s *reportService) SalesReport(ctx context.Context, date, window string) (*SalesReport, error) {
	report, sales, err := s.summary(ctx, date, window)
	if err != nil {
		return nil, err
	}
	return &SalesReport{SummaryReport: *report, Sales: sales}, nil
}

func (s *reportService) ExpensesReport(ctx context.Context, date, window string) (*ExpensesReport, error) {
	from, to, _, err := s.window(date, window)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.FindBetween(ctx, from, to, false)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}

	report := &ExpensesReport{
		From:           from.Format(model.DateLayout),
		To:             to.AddDate(0, 0, -1).Format(model.DateLayout),
		TotalExpenses:  decimal.Zero,
		ExpensesByType: map[string]decimal.Decimal{},
		Expenses:       expenses,
	}
	for _, e := range expenses {
		report.TotalExpenses = report.TotalExpenses.Add(e.Amount)
		report.ExpensesByType[e.Type] = report.ExpensesByType[e.Type].Add(e.Amount)
	}
	return report, nil
}

func (s *reportService) StockReport(ctx context.Context) ([]repository.CategoryStock, error) {
	rows, err := s.products.StockByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock report: %w", err)
	}
	return rows, nil
}
