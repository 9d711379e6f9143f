package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportType string

const (
	ReportDaily ReportType = "daily"
	ReportRange ReportType = "range"
)

// DateLayout is the calendar-day key format of reports.
const DateLayout = "2006-01-02"

// Report is an immutable snapshot of one period's aggregates.
// At most one daily report exists per date.
type Report struct {
	ID                   uuid.UUID                  `gorm:"type:uuid;primary_key;" json:"id"`
	Date                 string                     `gorm:"type:varchar(10);not null;uniqueIndex:idx_reports_date_type" json:"date"`
	Type                 ReportType                 `gorm:"type:varchar(10);not null;default:daily;uniqueIndex:idx_reports_date_type" json:"type"`
	TotalProductsSold    int                        `gorm:"not null;default:0" json:"totalProductsSold"`
	TotalSales           decimal.Decimal            `gorm:"type:numeric(14,2);not null" json:"totalSales"`
	TotalExpenses        decimal.Decimal            `gorm:"type:numeric(14,2);not null" json:"totalExpenses"`
	NetProfit            decimal.Decimal            `gorm:"type:numeric(14,2);not null" json:"netProfit"`
	SalesByPaymentMethod map[string]decimal.Decimal `gorm:"serializer:json;type:text" json:"salesByPaymentMethod"`
	CreatedAt            time.Time                  `json:"createdAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.SalesByPaymentMethod == nil {
		r.SalesByPaymentMethod = map[string]decimal.Decimal{}
	}
	return nil
}
