package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/db"
	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	pkgerrors "github.com/pbertoldo/workshop-backend/pkg/errors"
	"github.com/pbertoldo/workshop-backend/pkg/metrics"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines catalog and stock ledger operations.
type Service interface {
	CreatePart(ctx context.Context, input CreatePartInput) (*models.Part, error)
	GetPart(ctx context.Context, id uuid.UUID) (*models.Part, error)
	ListParts(ctx context.Context, params pagination.Params) ([]models.Part, string, error)
	ListLowStock(ctx context.Context) ([]models.Part, error)
	UpdatePart(ctx context.Context, id uuid.UUID, input UpdatePartInput) (*models.Part, error)
	RecordMovement(ctx context.Context, input RecordMovementInput) (*models.StockMovement, error)
	ListMovements(ctx context.Context, partID uuid.UUID, params pagination.Params) ([]models.StockMovement, string, error)
	ListMovementsByReference(ctx context.Context, reference string) ([]models.StockMovement, error)
	CommitForOrder(ctx context.Context, tx *gorm.DB, lines []OrderLine, reference string) error
	RestoreForOrder(ctx context.Context, tx *gorm.DB, lines []OrderLine, reference string) error
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.LedgerMetrics
}

// NewService wires an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: ledgerMetrics}, nil
}

func (s *service) CreatePart(ctx context.Context, input CreatePartInput) (*models.Part, error) {
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if input.StockQty < 0 || input.MinStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantities cannot be negative")
	}
	if input.SalePrice.IsNegative() || input.UnitCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}

	part := &models.Part{
		SKU:       input.SKU,
		Name:      input.Name,
		SalePrice: input.SalePrice,
		UnitCost:  input.UnitCost,
		StockQty:  input.StockQty,
		MinStock:  input.MinStock,
	}

	created, err := s.repo.CreatePart(ctx, part)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create part")
	}
	return created, nil
}

func (s *service) GetPart(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part id required")
	}
	part, err := s.repo.FindPartByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
	}
	return part, nil
}

func (s *service) ListParts(ctx context.Context, params pagination.Params) ([]models.Part, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	parts, err := s.repo.ListParts(ctx, cursor, params.Limit)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts")
	}

	parts, more := pagination.TrimPage(parts, params.Limit)
	next := ""
	if more {
		last := parts[len(parts)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return parts, next, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]models.Part, error) {
	parts, err := s.repo.ListLowStockParts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock parts")
	}
	return parts, nil
}

func (s *service) UpdatePart(ctx context.Context, id uuid.UUID, input UpdatePartInput) (*models.Part, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = *input.Name
	}
	if input.SalePrice != nil {
		if input.SalePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price cannot be negative")
		}
		updates["sale_price"] = *input.SalePrice
	}
	if input.UnitCost != nil {
		if input.UnitCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost cannot be negative")
		}
		updates["unit_cost"] = *input.UnitCost
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock cannot be negative")
		}
		updates["min_stock"] = *input.MinStock
	}
	if len(updates) == 0 {
		return s.GetPart(ctx, id)
	}

	if _, err := s.GetPart(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePart(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update part")
	}
	return s.GetPart(ctx, id)
}

func (s *service) RecordMovement(ctx context.Context, input RecordMovementInput) (*models.StockMovement, error) {
	if input.PartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part id required")
	}
	if !input.Direction.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "direction must be in or out")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}
	if input.Reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference required")
	}

	var movement *models.StockMovement
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindPartByID(ctx, input.PartID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
		}

		var err error
		if input.Direction == enums.MovementOut {
			err = decreaseGuarded(ctx, repo, input.PartID, input.Qty, s.metrics)
		} else {
			_, err = repo.IncreaseStock(ctx, input.PartID, input.Qty)
			if err != nil {
				err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increase stock")
			}
		}
		if err != nil {
			return err
		}

		movement, err = repo.CreateMovement(ctx, &models.StockMovement{
			PartID:    input.PartID,
			Direction: input.Direction,
			Qty:       input.Qty,
			Reference: input.Reference,
			Note:      input.Note,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record movement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncMovement(input.Direction.String())
	return movement, nil
}

func (s *service) ListMovements(ctx context.Context, partID uuid.UUID, params pagination.Params) ([]models.StockMovement, string, error) {
	if partID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "part id required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	movements, err := s.repo.ListMovementsByPart(ctx, partID, cursor, params.Limit)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movements")
	}

	movements, more := pagination.TrimPage(movements, params.Limit)
	next := ""
	if more {
		last := movements[len(movements)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return movements, next, nil
}

func (s *service) ListMovementsByReference(ctx context.Context, reference string) ([]models.StockMovement, error) {
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference required")
	}
	movements, err := s.repo.ListMovementsByReference(ctx, reference)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list movements by reference")
	}
	return movements, nil
}

// CommitForOrder consumes stock for every part line of an order inside the
// caller's transaction. Any shortage fails the whole transaction.
func (s *service) CommitForOrder(ctx context.Context, tx *gorm.DB, lines []OrderLine, reference string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock commit")
	}
	if reference == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reference required")
	}

	repo := s.repo.WithTx(tx)
	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		if err := decreaseGuarded(ctx, repo, line.PartID, line.Qty, s.metrics); err != nil {
			return err
		}
		if _, err := repo.CreateMovement(ctx, &models.StockMovement{
			PartID:    line.PartID,
			Direction: enums.MovementOut,
			Qty:       line.Qty,
			Reference: reference,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record commit movement")
		}
		s.metrics.IncMovement(enums.MovementOut.String())
	}
	return nil
}

// RestoreForOrder returns previously committed stock inside the caller's
// transaction, mirroring CommitForOrder line by line.
func (s *service) RestoreForOrder(ctx context.Context, tx *gorm.DB, lines []OrderLine, reference string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock restore")
	}
	if reference == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reference required")
	}

	repo := s.repo.WithTx(tx)
	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		if _, err := repo.IncreaseStock(ctx, line.PartID, line.Qty); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
		}
		if _, err := repo.CreateMovement(ctx, &models.StockMovement{
			PartID:    line.PartID,
			Direction: enums.MovementIn,
			Qty:       line.Qty,
			Reference: reference,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record restore movement")
		}
		s.metrics.IncMovement(enums.MovementIn.String())
	}
	return nil
}

func decreaseGuarded(ctx context.Context, repo Repository, partID uuid.UUID, qty int, ledgerMetrics *metrics.LedgerMetrics) error {
	affected, err := repo.DecreaseStock(ctx, partID, qty)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrease stock")
	}
	if affected == 0 {
		ledgerMetrics.IncInsufficientStock()
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{"part_id": partID, "requested_qty": qty})
	}
	return nil
}
