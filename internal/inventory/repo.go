package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
)

// Repository defines the persistence operations the inventory service needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePart(ctx context.Context, part *models.Part) (*models.Part, error)
	FindPartByID(ctx context.Context, id uuid.UUID) (*models.Part, error)
	FindPartBySKU(ctx context.Context, sku string) (*models.Part, error)
	ListParts(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Part, error)
	ListLowStockParts(ctx context.Context) ([]models.Part, error)
	UpdatePart(ctx context.Context, id uuid.UUID, updates map[string]any) error
	IncreaseStock(ctx context.Context, partID uuid.UUID, qty int) (int64, error)
	DecreaseStock(ctx context.Context, partID uuid.UUID, qty int) (int64, error)
	CreateMovement(ctx context.Context, movement *models.StockMovement) (*models.StockMovement, error)
	ListMovementsByPart(ctx context.Context, partID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.StockMovement, error)
	ListMovementsByReference(ctx context.Context, reference string) ([]models.StockMovement, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePart(ctx context.Context, part *models.Part) (*models.Part, error) {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

func (r *repository) FindPartByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) FindPartBySKU(ctx context.Context, sku string) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) ListParts(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Part, error) {
	query := r.db.WithContext(ctx).Model(&models.Part{})
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var parts []models.Part
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) ListLowStockParts(ctx context.Context) ([]models.Part, error) {
	var parts []models.Part
	err := r.db.WithContext(ctx).
		Where("stock_qty <= min_stock").
		Order("sku ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) UpdatePart(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) IncreaseStock(ctx context.Context, partID uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE parts
		SET stock_qty = stock_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, partID)
	return res.RowsAffected, res.Error
}

// DecreaseStock only succeeds when enough stock remains; callers must check
// the affected row count.
func (r *repository) DecreaseStock(ctx context.Context, partID uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE parts
		SET stock_qty = stock_qty - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_qty >= ?
	`, qty, partID, qty)
	return res.RowsAffected, res.Error
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.StockMovement) (*models.StockMovement, error) {
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return nil, err
	}
	return movement, nil
}

func (r *repository) ListMovementsByPart(ctx context.Context, partID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.StockMovement, error) {
	query := r.db.WithContext(ctx).
		Model(&models.StockMovement{}).
		Where("part_id = ?", partID)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var movements []models.StockMovement
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repository) ListMovementsByReference(ctx context.Context, reference string) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("created_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}
