package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stockroom-api/internal/domain/repository"
	"gorm.io/gorm"
)

// errInsufficientStock aborts the bill transaction; it never leaves this file.
var errInsufficientStock = errors.New("insufficient stock")

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func itemQuantities(items []entity.BillItem) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		out[it.ProductID] += it.Quantity
	}
	return out
}

func (r *billRepository) CreateWithStock(ctx context.Context, bill *entity.Bill) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		failed, err := decrementStock(tx, itemQuantities(bill.Items))
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			failedIDs = failed
			return errInsufficientStock
		}
		return tx.Create(bill).Error
	})

	if errors.Is(err, errInsufficientStock) {
		return failedIDs, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, domainRepo.ErrDuplicateBillNo
	}
	return nil, err
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "bill_no = ?", billNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Scopes(Search(params.Search, "bill_no", "customer_name"))

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at < ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Items").
		Order("created_at " + sortDirection(params.SortOrder)).
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) CancelAndRestock(ctx context.Context, id uuid.UUID) (bool, error) {
	cancelled := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Bill{}).
			Where("id = ? AND status = ?", id, enum.BillStatusPaid).
			Update("status", enum.BillStatusCancelled)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		var items []entity.BillItem
		if err := tx.Where("bill_id = ?", id).Find(&items).Error; err != nil {
			return err
		}
		if err := incrementStock(tx, itemQuantities(items)); err != nil {
			return err
		}
		cancelled = true
		return nil
	})

	return cancelled, err
}
