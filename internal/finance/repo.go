package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
)

// Repository defines persistence for the financial ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.FinancialRecord) (*models.FinancialRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FinancialRecord, error)
	List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.FinancialRecord, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.FinancialRecord, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (int64, error)
	VoidByOrder(ctx context.Context, orderID uuid.UUID, voidedAt time.Time) (int64, error)
	Aggregate(ctx context.Context, from, to time.Time) (*Summary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a finance repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.FinancialRecord) (*models.FinancialRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FinancialRecord, error) {
	var record models.FinancialRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.FinancialRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.FinancialRecord{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var records []models.FinancialRecord
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.FinancialRecord, error) {
	var records []models.FinancialRecord
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// MarkPaid only succeeds while the record is pending; callers must check the
// affected row count.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FinancialRecord{}).
		Where("id = ? AND status = ?", id, enums.FinancePending).
		Updates(map[string]any{
			"status":  enums.FinancePaid,
			"paid_at": paidAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) VoidByOrder(ctx context.Context, orderID uuid.UUID, voidedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FinancialRecord{}).
		Where("order_id = ? AND status <> ?", orderID, enums.FinanceVoid).
		Updates(map[string]any{
			"status":    enums.FinanceVoid,
			"voided_at": voidedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) Aggregate(ctx context.Context, from, to time.Time) (*Summary, error) {
	var row struct {
		TotalIncome  decimal.NullDecimal
		TotalExpense decimal.NullDecimal
		PendingCount int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN type = ? THEN amount END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = ? THEN amount END), 0) AS total_expense,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_count
		FROM financial_records
		WHERE status <> ?
		  AND created_at >= ?
		  AND created_at < ?
	`, enums.FinanceIncome, enums.FinanceExpense, enums.FinancePending,
		enums.FinanceVoid, from, to).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	if row.TotalIncome.Valid {
		income = row.TotalIncome.Decimal
	}
	expense := decimal.Zero
	if row.TotalExpense.Valid {
		expense = row.TotalExpense.Decimal
	}

	return &Summary{
		From:         from,
		To:           to,
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
		PendingCount: row.PendingCount,
	}, nil
}
