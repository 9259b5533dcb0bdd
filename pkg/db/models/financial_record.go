package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/enums"
)

// FinancialRecord is one append-only income or expense ledger entry. The
// only mutations allowed after creation are pending -> paid (setting PaidAt
// once) and voiding when a linked order is reopened.
type FinancialRecord struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type        enums.FinanceType   `gorm:"column:type;type:text;not null"`
	Category    string              `gorm:"column:category;not null"`
	Description *string             `gorm:"column:description"`
	Amount      decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status      enums.FinanceStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	OrderID     *uuid.UUID          `gorm:"column:order_id;type:uuid;index"`
	PaidAt      *time.Time          `gorm:"column:paid_at"`
	VoidedAt    *time.Time          `gorm:"column:voided_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (f *FinancialRecord) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
