package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pbertoldo/workshop-backend/pkg/enums"
)

// RecordEntryInput captures a manual ledger entry, optionally linked to the
// work order it concerns.
type RecordEntryInput struct {
	Type        enums.FinanceType `json:"type" validate:"required"`
	Category    string            `json:"category" validate:"required"`
	Description *string           `json:"description,omitempty"`
	Amount      decimal.Decimal   `json:"amount" validate:"required"`
	OrderID     *uuid.UUID        `json:"order_id,omitempty"`
}

// ListFilter narrows ledger listings.
type ListFilter struct {
	Type   *enums.FinanceType
	Status *enums.FinanceStatus
}

// Summary aggregates the ledger over a period. Voided records are excluded.
type Summary struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
	PendingCount int64           `json:"pending_count"`
}

// OrderRef identifies the order a ledger entry settles.
type OrderRef struct {
	OrderID uuid.UUID
	Code    string
}
