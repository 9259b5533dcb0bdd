package workorders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pbertoldo/workshop-backend/pkg/enums"
)

// CreateOrderInput captures the fields required to open a work order.
type CreateOrderInput struct {
	CustomerID uuid.UUID        `json:"customer_id" validate:"required"`
	VehicleID  *uuid.UUID       `json:"vehicle_id,omitempty"`
	MechanicID *uuid.UUID       `json:"mechanic_id,omitempty"`
	SellerID   *uuid.UUID       `json:"seller_id,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	Discount   *decimal.Decimal `json:"discount,omitempty"`
}

// UpdateOrderInput carries the mutable header fields of a non-terminal order.
type UpdateOrderInput struct {
	VehicleID  *uuid.UUID       `json:"vehicle_id,omitempty"`
	MechanicID *uuid.UUID       `json:"mechanic_id,omitempty"`
	SellerID   *uuid.UUID       `json:"seller_id,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	Discount   *decimal.Decimal `json:"discount,omitempty"`
}

// TransitionInput moves an order to a target status.
type TransitionInput struct {
	OrderID uuid.UUID         `json:"-"`
	Target  enums.OrderStatus `json:"target" validate:"required"`
	ActorID uuid.UUID         `json:"-"`
	Note    *string           `json:"note,omitempty"`
}

// AddItemInput appends a billable line to an order. Lines with a catalog
// reference may omit name and unit price, which are then taken from the
// catalog. Zero quantity marks a waived line.
type AddItemInput struct {
	Kind      enums.ItemKind   `json:"kind" validate:"required"`
	Name      string           `json:"name,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Qty       int              `json:"qty" validate:"gte=0"`
	PartID    *uuid.UUID       `json:"part_id,omitempty"`
}

// UpdateItemInput changes the billable fields of an existing line.
type UpdateItemInput struct {
	Name      *string          `json:"name,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Qty       *int             `json:"qty,omitempty" validate:"omitempty,gte=0"`
}
