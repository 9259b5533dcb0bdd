package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle belongs to a customer and is referenced by work orders.
type Vehicle struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null"`
	Plate      string    `gorm:"column:plate;not null"`
	Make       string    `gorm:"column:make;not null"`
	Model      string    `gorm:"column:model;not null"`
	Year       *int      `gorm:"column:year"`
	Color      *string   `gorm:"column:color"`
	Odometer   *int      `gorm:"column:odometer"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Vehicle) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
