package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	pkgerrors "github.com/pbertoldo/workshop-backend/pkg/errors"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
)

// CategoryWorkOrder marks ledger entries generated by order finalization.
const CategoryWorkOrder = "work_order"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines financial ledger operations.
type Service interface {
	RecordEntry(ctx context.Context, input RecordEntryInput) (*models.FinancialRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*models.FinancialRecord, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.FinancialRecord, string, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.FinancialRecord, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.FinancialRecord, error)
	Summarize(ctx context.Context, from, to time.Time) (*Summary, error)
	RecordOrderIncome(ctx context.Context, tx *gorm.DB, ref OrderRef, amount decimal.Decimal) error
	VoidOrderIncome(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires a finance service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("finance repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) RecordEntry(ctx context.Context, input RecordEntryInput) (*models.FinancialRecord, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be income or expense")
	}
	if input.Category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.OrderID != nil && *input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id cannot be empty")
	}

	record, err := s.repo.Create(ctx, &models.FinancialRecord{
		Type:        input.Type,
		Category:    input.Category,
		Description: input.Description,
		Amount:      input.Amount,
		Status:      enums.FinancePending,
		OrderID:     input.OrderID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record ledger entry")
	}
	return record, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.FinancialRecord, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "financial record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load financial record")
	}
	return record, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.FinancialRecord, string, error) {
	if filter.Type != nil && !filter.Type.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid type filter")
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	records, err := s.repo.List(ctx, filter, cursor, params.Limit)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list financial records")
	}

	records, more := pagination.TrimPage(records, params.Limit)
	next := ""
	if more {
		last := records[len(records)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return records, next, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.FinancialRecord, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	records, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list records by order")
	}
	return records, nil
}

// MarkPaid settles a pending entry exactly once. A second call, or a call on
// a voided entry, fails with a state conflict.
func (s *service) MarkPaid(ctx context.Context, id uuid.UUID) (*models.FinancialRecord, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "record id required")
	}

	var record *models.FinancialRecord
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "financial record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load financial record")
		}

		affected, err := repo.MarkPaid(ctx, id, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark record paid")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "record is not pending")
		}

		record, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload financial record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Summarize(ctx context.Context, from, to time.Time) (*Summary, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "period end must be after start")
	}
	summary, err := s.repo.Aggregate(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate ledger")
	}
	return summary, nil
}

// RecordOrderIncome writes the income entry for a finalized order inside the
// caller's transaction.
func (s *service) RecordOrderIncome(ctx context.Context, tx *gorm.DB, ref OrderRef, amount decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for order income")
	}
	if ref.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "order total cannot be negative")
	}

	orderID := ref.OrderID
	description := ref.Code
	_, err := s.repo.WithTx(tx).Create(ctx, &models.FinancialRecord{
		Type:        enums.FinanceIncome,
		Category:    CategoryWorkOrder,
		Description: &description,
		Amount:      amount,
		Status:      enums.FinancePending,
		OrderID:     &orderID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order income")
	}
	return nil
}

// VoidOrderIncome voids every live entry linked to the order inside the
// caller's transaction. Reopening an already voided order is a no-op.
func (s *service) VoidOrderIncome(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for order void")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	if _, err := s.repo.WithTx(tx).VoidByOrder(ctx, orderID, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "void order income")
	}
	return nil
}
