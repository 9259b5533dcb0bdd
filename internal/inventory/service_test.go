package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/enums"
	pkgerrors "github.com/pbertoldo/workshop-backend/pkg/errors"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	parts := `
CREATE TABLE IF NOT EXISTS parts (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  sale_price NUMERIC NOT NULL,
  unit_cost NUMERIC NOT NULL,
  stock_qty INTEGER NOT NULL DEFAULT 0,
  min_stock INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	movements := `
CREATE TABLE IF NOT EXISTS stock_movements (
  id TEXT PRIMARY KEY,
  part_id TEXT NOT NULL,
  direction TEXT NOT NULL,
  qty INTEGER NOT NULL,
  reference TEXT NOT NULL,
  note TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(parts).Error)
	require.NoError(t, db.Exec(movements).Error)
	return db
}

func newInventoryService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupInventoryTestDB(t)
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, nil)
	require.NoError(t, err)
	return svc, db
}

func createPart(t *testing.T, svc Service, sku string, stock int) uuid.UUID {
	t.Helper()
	part, err := svc.CreatePart(context.Background(), CreatePartInput{
		SKU:       sku,
		Name:      "Air Filter",
		SalePrice: decimal.RequireFromString("25.00"),
		UnitCost:  decimal.RequireFromString("12.50"),
		StockQty:  stock,
		MinStock:  2,
	})
	require.NoError(t, err)
	return part.ID
}

func TestCreatePartRejectsDuplicateSKU(t *testing.T) {
	svc, _ := newInventoryService(t)

	createPart(t, svc, "AF-100", 5)
	_, err := svc.CreatePart(context.Background(), CreatePartInput{
		SKU:       "AF-100",
		Name:      "Other",
		SalePrice: decimal.Zero,
		UnitCost:  decimal.Zero,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestRecordMovementAdjustsStock(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	partID := createPart(t, svc, "AF-101", 5)

	movement, err := svc.RecordMovement(ctx, RecordMovementInput{
		PartID:    partID,
		Direction: enums.MovementIn,
		Qty:       3,
		Reference: "PO-001",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.MovementIn, movement.Direction)

	part, err := svc.GetPart(ctx, partID)
	require.NoError(t, err)
	assert.Equal(t, 8, part.StockQty)

	_, err = svc.RecordMovement(ctx, RecordMovementInput{
		PartID:    partID,
		Direction: enums.MovementOut,
		Qty:       6,
		Reference: "ADJ-001",
	})
	require.NoError(t, err)

	part, err = svc.GetPart(ctx, partID)
	require.NoError(t, err)
	assert.Equal(t, 2, part.StockQty)
}

func TestRecordMovementRejectsOverdraw(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	partID := createPart(t, svc, "AF-102", 2)

	_, err := svc.RecordMovement(ctx, RecordMovementInput{
		PartID:    partID,
		Direction: enums.MovementOut,
		Qty:       3,
		Reference: "ADJ-002",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock))

	// The failed movement must leave no ledger row behind.
	movements, err := svc.ListMovementsByReference(ctx, "ADJ-002")
	require.NoError(t, err)
	assert.Empty(t, movements)

	part, err := svc.GetPart(ctx, partID)
	require.NoError(t, err)
	assert.Equal(t, 2, part.StockQty)
}

func TestRecordMovementValidation(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	partID := createPart(t, svc, "AF-103", 2)

	cases := []RecordMovementInput{
		{PartID: uuid.Nil, Direction: enums.MovementIn, Qty: 1, Reference: "X"},
		{PartID: partID, Direction: "sideways", Qty: 1, Reference: "X"},
		{PartID: partID, Direction: enums.MovementIn, Qty: 0, Reference: "X"},
		{PartID: partID, Direction: enums.MovementIn, Qty: 1, Reference: ""},
	}
	for _, input := range cases {
		_, err := svc.RecordMovement(ctx, input)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "input %+v", input)
	}

	_, err := svc.RecordMovement(ctx, RecordMovementInput{
		PartID:    uuid.New(),
		Direction: enums.MovementIn,
		Qty:       1,
		Reference: "X",
	})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestUpdatePartDoesNotTouchStock(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	partID := createPart(t, svc, "AF-104", 7)
	name := "Premium Air Filter"
	price := decimal.RequireFromString("30.00")

	part, err := svc.UpdatePart(ctx, partID, UpdatePartInput{Name: &name, SalePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, name, part.Name)
	assert.True(t, part.SalePrice.Equal(price))
	assert.Equal(t, 7, part.StockQty)
}

func TestListLowStock(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	low := createPart(t, svc, "AF-105", 1)
	createPart(t, svc, "AF-106", 9)

	parts, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, low, parts[0].ID)
}

func TestListPartsPaginates(t *testing.T) {
	svc, _ := newInventoryService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createPart(t, svc, fmt.Sprintf("AF-2%02d", i), 5)
	}

	page, next, err := svc.ListParts(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	require.NotEmpty(t, next)

	rest, last, err := svc.ListParts(ctx, pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.Empty(t, last)
}
