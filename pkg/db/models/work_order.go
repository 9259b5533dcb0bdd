package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/enums"
)

// WorkOrder is a service ticket from intake to delivery. It owns its items
// and status history; customer, vehicle and staff are references only.
// Version guards concurrent updates: every write bumps it and carries the
// previously read value in the WHERE clause.
type WorkOrder struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number        int64             `gorm:"column:number;uniqueIndex;not null"`
	Code          string            `gorm:"column:code;uniqueIndex;not null"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'open'"`
	CustomerID    uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	VehicleID     *uuid.UUID        `gorm:"column:vehicle_id;type:uuid"`
	MechanicID    *uuid.UUID        `gorm:"column:mechanic_id;type:uuid"`
	SellerID      *uuid.UUID        `gorm:"column:seller_id;type:uuid"`
	Notes         *string           `gorm:"column:notes"`
	Discount      decimal.Decimal   `gorm:"column:discount;type:numeric(12,2);not null"`
	PartsSubtotal decimal.Decimal   `gorm:"column:parts_subtotal;type:numeric(12,2);not null"`
	LaborSubtotal decimal.Decimal   `gorm:"column:labor_subtotal;type:numeric(12,2);not null"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Version       int64             `gorm:"column:version;not null;default:0"`
	FinalizedAt   *time.Time        `gorm:"column:finalized_at"`
	DeliveredAt   *time.Time        `gorm:"column:delivered_at"`
	Items         []WorkOrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History       []StatusHistory   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *WorkOrder) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
