package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/enums"
)

// StockMovement is the append-only record of stock entering or leaving.
// Reference always carries the human-facing code of the causing business
// event (a work order code), never an internal identifier.
type StockMovement struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartID    uuid.UUID               `gorm:"column:part_id;type:uuid;not null;index"`
	Direction enums.MovementDirection `gorm:"column:direction;type:text;not null"`
	Qty       int                     `gorm:"column:qty;not null"`
	Reference string                  `gorm:"column:reference;not null;index"`
	Note      *string                 `gorm:"column:note"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (m *StockMovement) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
