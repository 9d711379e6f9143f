package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// Sale records sold line items. Creating a Sale reserves each item's quantity
// from its product; deleting it gives the quantity back.
type Sale struct {
	BaseModel
	Items         []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	Seller        string          `gorm:"type:varchar(50);not null" json:"seller"`
	Date          time.Time       `gorm:"not null;index" json:"date"`
	IsProcessed   bool            `gorm:"not null;default:false;index" json:"isProcessed"`
}

// SaleItem is one line of a Sale. UnitPrice is the product's sale price
// at the moment the sale was made.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unitPrice"`
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Subtotal is Quantity * UnitPrice.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemCount sums the quantities of all lines.
func (s *Sale) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}
