package workorders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/internal/finance"
	"github.com/pbertoldo/workshop-backend/internal/inventory"
	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
)

// Repository defines persistence operations for work order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.WorkOrder) (*models.WorkOrder, error)
	NextOrderNumber(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error)
	FindByCode(ctx context.Context, code string) (*models.WorkOrder, error)
	List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.WorkOrder, error)
	UpdateGuarded(ctx context.Context, id uuid.UUID, version int64, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateItem(ctx context.Context, item *models.WorkOrderItem) (*models.WorkOrderItem, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.WorkOrderItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	ListItems(ctx context.Context, orderID uuid.UUID) ([]models.WorkOrderItem, error)
	AppendHistory(ctx context.Context, entry *models.StatusHistory) error
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]models.StatusHistory, error)
}

// StockLedger consumes or restores part stock inside the order transaction.
type StockLedger interface {
	CommitForOrder(ctx context.Context, tx *gorm.DB, lines []inventory.OrderLine, reference string) error
	RestoreForOrder(ctx context.Context, tx *gorm.DB, lines []inventory.OrderLine, reference string) error
}

// FinanceLedger writes or voids the income entry tied to an order.
type FinanceLedger interface {
	RecordOrderIncome(ctx context.Context, tx *gorm.DB, ref finance.OrderRef, amount decimal.Decimal) error
	VoidOrderIncome(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

// ListFilters narrow the work order listing.
type ListFilters struct {
	Status     *enums.OrderStatus
	CustomerID *uuid.UUID
	MechanicID *uuid.UUID
}
