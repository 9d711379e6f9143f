package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseTypes lists the accepted expense categories.
var ExpenseTypes = []string{"Servicios", "Compra de Stock", "Alquiler", "Otros"}

type Expense struct {
	BaseModel
	Type        string          `gorm:"type:varchar(50);not null" json:"type"`
	Description string          `gorm:"type:varchar(200);not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	IsProcessed bool            `gorm:"not null;default:false;index" json:"isProcessed"`
}
