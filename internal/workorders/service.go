package workorders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/internal/finance"
	"github.com/pbertoldo/workshop-backend/internal/inventory"
	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	pkgerrors "github.com/pbertoldo/workshop-backend/pkg/errors"
	"github.com/pbertoldo/workshop-backend/pkg/metrics"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
)

// orderCodeFormat renders the sequential order number as the human-facing
// code used everywhere outside the database.
const orderCodeFormat = "OS-%06d"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines work order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.WorkOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error)
	GetByCode(ctx context.Context, code string) (*models.WorkOrder, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.WorkOrder, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.WorkOrder, error)
	Transition(ctx context.Context, input TransitionInput) (*models.WorkOrder, error)
	AddItem(ctx context.Context, orderID uuid.UUID, input AddItemInput) (*models.WorkOrder, error)
	UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, input UpdateItemInput) (*models.WorkOrder, error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.WorkOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, orderID uuid.UUID) ([]models.StatusHistory, error)
}

type service struct {
	repo    Repository
	parts   inventory.Repository
	tx      txRunner
	stock   StockLedger
	ledger  FinanceLedger
	metrics *metrics.LedgerMetrics
}

// NewService wires a work order service with the required dependencies.
func NewService(repo Repository, parts inventory.Repository, tx txRunner, stock StockLedger, ledger FinanceLedger, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("work order repository required")
	}
	if parts == nil {
		return nil, fmt.Errorf("parts repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("finance ledger required")
	}
	return &service{
		repo:    repo,
		parts:   parts,
		tx:      tx,
		stock:   stock,
		ledger:  ledger,
		metrics: ledgerMetrics,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.WorkOrder, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	discount := decimal.Zero
	if input.Discount != nil {
		if input.Discount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
		}
		discount = *input.Discount
	}

	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := repo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		order, err = repo.Create(ctx, &models.WorkOrder{
			Number:        number,
			Code:          fmt.Sprintf(orderCodeFormat, number),
			Status:        enums.OrderStatusOpen,
			CustomerID:    input.CustomerID,
			VehicleID:     input.VehicleID,
			MechanicID:    input.MechanicID,
			SellerID:      input.SellerID,
			Notes:         input.Notes,
			Discount:      discount,
			PartsSubtotal: decimal.Zero,
			LaborSubtotal: decimal.Zero,
			Total:         decimal.Zero,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create work order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.load(ctx, s.repo, id)
}

func (s *service) GetByCode(ctx context.Context, code string) (*models.WorkOrder, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code required")
	}
	order, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "work order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.WorkOrder, string, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	orders, err := s.repo.List(ctx, filters, cursor, params.Limit)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list work orders")
	}

	orders, more := pagination.TrimPage(orders, params.Limit)
	next := ""
	if more {
		last := orders[len(orders)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return orders, next, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.WorkOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Discount != nil && input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}

	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is locked after finalization")
		}

		updates := map[string]any{}
		if input.VehicleID != nil {
			updates["vehicle_id"] = *input.VehicleID
		}
		if input.MechanicID != nil {
			updates["mechanic_id"] = *input.MechanicID
		}
		if input.SellerID != nil {
			updates["seller_id"] = *input.SellerID
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if input.Discount != nil {
			updates["discount"] = *input.Discount
		}
		if len(updates) == 0 {
			order = current
			return nil
		}

		if err := s.applyGuarded(ctx, repo, current, updates); err != nil {
			return err
		}
		order, err = s.load(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Transition moves an order along the status graph. Stock and income side
// effects fire exactly once, on the first entry into the finalized/delivered
// pair, and are reversed when the order leaves that pair.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.WorkOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor identity missing")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	started := time.Now()
	var order *models.WorkOrder
	var from enums.OrderStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := s.load(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		from = current.Status

		if current.Status == input.Target {
			order = current
			return nil
		}
		if !enums.CanTransition(current.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]any{"from": current.Status, "to": input.Target})
		}

		updates := map[string]any{"status": input.Target}
		now := time.Now().UTC()

		entering := !current.Status.IsTerminal() && input.Target.IsTerminal()
		leaving := current.Status.IsTerminal() && !input.Target.IsTerminal()

		switch {
		case entering:
			if err := s.stock.CommitForOrder(ctx, tx, partLines(current.Items), current.Code); err != nil {
				return err
			}
			if err := s.ledger.RecordOrderIncome(ctx, tx, finance.OrderRef{OrderID: current.ID, Code: current.Code}, incomeAmount(current)); err != nil {
				return err
			}
		case leaving:
			if err := s.stock.RestoreForOrder(ctx, tx, partLines(current.Items), current.Code); err != nil {
				return err
			}
			if err := s.ledger.VoidOrderIncome(ctx, tx, current.ID); err != nil {
				return err
			}
		}

		if input.Target == enums.OrderStatusFinalized && current.FinalizedAt == nil {
			updates["finalized_at"] = now
		}
		if input.Target == enums.OrderStatusDelivered && current.DeliveredAt == nil {
			updates["delivered_at"] = now
		}

		if err := s.applyGuarded(ctx, repo, current, updates); err != nil {
			return err
		}

		if err := repo.AppendHistory(ctx, &models.StatusHistory{
			OrderID:    current.ID,
			FromStatus: current.Status,
			ToStatus:   input.Target,
			ActorID:    input.ActorID,
			Note:       input.Note,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}

		order, err = s.load(ctx, repo, input.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if from != input.Target {
		s.metrics.IncTransition(from.String(), input.Target.String())
	}
	s.metrics.ObserveTxDuration("transition", time.Since(started))
	return order, nil
}

func (s *service) AddItem(ctx context.Context, orderID uuid.UUID, input AddItemInput) (*models.WorkOrder, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kind must be part or service")
	}
	// Zero quantity is a waived line: billed nothing, moves no stock.
	if input.Qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty cannot be negative")
	}
	if input.PartID != nil && input.Kind != enums.ItemKindPart {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part id only applies to part lines")
	}
	if input.PartID == nil && input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required when no catalog part is referenced")
	}
	if input.PartID == nil && input.UnitPrice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price required when no catalog part is referenced")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := s.loadMutable(ctx, repo, orderID)
		if err != nil {
			return err
		}

		name := input.Name
		unitPrice := decimal.Zero
		if input.UnitPrice != nil {
			unitPrice = *input.UnitPrice
		}
		if input.Kind == enums.ItemKindPart && input.PartID != nil {
			part, err := s.parts.WithTx(tx).FindPartByID(ctx, *input.PartID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
			}
			if name == "" {
				name = part.Name
			}
			if input.UnitPrice == nil {
				unitPrice = part.SalePrice
			}
		}

		if _, err := repo.CreateItem(ctx, &models.WorkOrderItem{
			OrderID:   current.ID,
			Kind:      input.Kind,
			Name:      name,
			UnitPrice: unitPrice,
			Qty:       input.Qty,
			LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(input.Qty))),
			PartID:    input.PartID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
		}

		if err := s.recomputeTotals(ctx, repo, current); err != nil {
			return err
		}
		order, err = s.load(ctx, repo, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, input UpdateItemInput) (*models.WorkOrder, error) {
	if orderID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}
	if input.Qty != nil && *input.Qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty cannot be negative")
	}
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := s.loadMutable(ctx, repo, orderID)
		if err != nil {
			return err
		}

		item, err := s.loadItem(ctx, repo, current.ID, itemID)
		if err != nil {
			return err
		}

		qty := item.Qty
		if input.Qty != nil {
			qty = *input.Qty
		}
		unitPrice := item.UnitPrice
		if input.UnitPrice != nil {
			unitPrice = *input.UnitPrice
		}

		updates := map[string]any{
			"qty":        qty,
			"unit_price": unitPrice,
			"line_total": unitPrice.Mul(decimal.NewFromInt(int64(qty))),
		}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if err := repo.UpdateItem(ctx, item.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
		}

		if err := s.recomputeTotals(ctx, repo, current); err != nil {
			return err
		}
		order, err = s.load(ctx, repo, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.WorkOrder, error) {
	if orderID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id and item id required")
	}

	var order *models.WorkOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := s.loadMutable(ctx, repo, orderID)
		if err != nil {
			return err
		}

		item, err := s.loadItem(ctx, repo, current.ID, itemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
		}

		if err := s.recomputeTotals(ctx, repo, current); err != nil {
			return err
		}
		order, err = s.load(ctx, repo, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order and its owned rows. Orders deleted while in the
// terminal pair have their stock and income effects reversed first, so the
// ledgers stay consistent.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}

		if current.Status.IsTerminal() {
			if err := s.stock.RestoreForOrder(ctx, tx, partLines(current.Items), current.Code); err != nil {
				return err
			}
			if err := s.ledger.VoidOrderIncome(ctx, tx, current.ID); err != nil {
				return err
			}
		}

		if err := repo.Delete(ctx, current.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete work order")
		}
		return nil
	})
}

func (s *service) History(ctx context.Context, orderID uuid.UUID) ([]models.StatusHistory, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	entries, err := s.repo.ListHistory(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list status history")
	}
	return entries, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.WorkOrder, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "work order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load work order")
	}
	return order, nil
}

func (s *service) loadMutable(ctx context.Context, repo Repository, id uuid.UUID) (*models.WorkOrder, error) {
	order, err := s.load(ctx, repo, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "items are locked on finalized or delivered orders")
	}
	return order, nil
}

func (s *service) loadItem(ctx context.Context, repo Repository, orderID, itemID uuid.UUID) (*models.WorkOrderItem, error) {
	item, err := repo.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if item.OrderID != orderID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return item, nil
}

func (s *service) recomputeTotals(ctx context.Context, repo Repository, order *models.WorkOrder) error {
	items, err := repo.ListItems(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload items")
	}
	parts, labor, total := computeTotals(items)
	return s.applyGuarded(ctx, repo, order, map[string]any{
		"parts_subtotal": parts,
		"labor_subtotal": labor,
		"total":          total,
	})
}

func (s *service) applyGuarded(ctx context.Context, repo Repository, order *models.WorkOrder, updates map[string]any) error {
	affected, err := repo.UpdateGuarded(ctx, order.ID, order.Version, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update work order")
	}
	if affected == 0 {
		s.metrics.IncConflict()
		return pkgerrors.New(pkgerrors.CodeConflict, "work order was modified concurrently")
	}
	order.Version++
	return nil
}

// computeTotals keeps total == parts + labor. The discount is applied only
// when the order's income is recorded, never to the stored totals.
func computeTotals(items []models.WorkOrderItem) (parts, labor, total decimal.Decimal) {
	parts = decimal.Zero
	labor = decimal.Zero
	for _, item := range items {
		if item.Kind == enums.ItemKindPart {
			parts = parts.Add(item.LineTotal)
		} else {
			labor = labor.Add(item.LineTotal)
		}
	}
	return parts, labor, parts.Add(labor)
}

// incomeAmount is the billable amount for a terminal order: grand total minus
// discount, floored at zero.
func incomeAmount(order *models.WorkOrder) decimal.Decimal {
	amount := order.Total.Sub(order.Discount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func partLines(items []models.WorkOrderItem) []inventory.OrderLine {
	lines := make([]inventory.OrderLine, 0, len(items))
	for _, item := range items {
		if item.Kind != enums.ItemKindPart || item.PartID == nil || item.Qty <= 0 {
			continue
		}
		lines = append(lines, inventory.OrderLine{PartID: *item.PartID, Qty: item.Qty})
	}
	return lines
}
