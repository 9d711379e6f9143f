package model

import "github.com/shopspring/decimal"

// Garment taxonomy accepted by the store.
var (
	ProductCategories = []string{"Bebé", "Nene/Nena"}
	ProductTypes      = []string{"Varón", "Mujer", "Unisex"}
	ProductGarments   = []string{"Camiseta", "Jeans", "Buzos", "Medias", "Camperas", "Pantalones"}
)

// Product is a clothing article kept in stock.
// Quantity is changed by sales (decrement/restore) and by admin edits only.
type Product struct {
	BaseModel
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Category  string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Type      string          `gorm:"type:varchar(50);not null" json:"type"`
	Garment   string          `gorm:"type:varchar(50);not null" json:"garment"`
	Size      string          `gorm:"type:varchar(20);not null" json:"size"`
	Color     string          `gorm:"type:varchar(30)" json:"color"`
	Quantity  int             `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	CostPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"costPrice"`
	SalePrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"salePrice"`
}
