package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Part is a catalog entry whose stock counter changes only through
// StockMovement rows.
type Part struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU       string          `gorm:"column:sku;uniqueIndex;not null"`
	Name      string          `gorm:"column:name;not null"`
	SalePrice decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2);not null"`
	UnitCost  decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null"`
	StockQty  int             `gorm:"column:stock_qty;not null;default:0"`
	MinStock  int             `gorm:"column:min_stock;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Part) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
