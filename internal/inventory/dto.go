package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pbertoldo/workshop-backend/pkg/enums"
)

// CreatePartInput captures the fields required to add a catalog part.
type CreatePartInput struct {
	SKU       string          `json:"sku" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	SalePrice decimal.Decimal `json:"sale_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	StockQty  int             `json:"stock_qty" validate:"gte=0"`
	MinStock  int             `json:"min_stock" validate:"gte=0"`
}

// UpdatePartInput carries optional catalog fields; stock is excluded because
// the counter only moves through movements.
type UpdatePartInput struct {
	Name      *string          `json:"name,omitempty"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	MinStock  *int             `json:"min_stock,omitempty" validate:"omitempty,gte=0"`
}

// RecordMovementInput captures a manual stock entry or exit.
type RecordMovementInput struct {
	PartID    uuid.UUID               `json:"part_id" validate:"required"`
	Direction enums.MovementDirection `json:"direction" validate:"required"`
	Qty       int                     `json:"qty" validate:"required,gt=0"`
	Reference string                  `json:"reference" validate:"required"`
	Note      *string                 `json:"note,omitempty"`
}

// OrderLine is the part/quantity pair an order commit or restore operates on.
type OrderLine struct {
	PartID uuid.UUID
	Qty    int
}
