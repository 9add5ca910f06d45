package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/pkg/pagination"
)

// ErrDuplicateBillNo is returned when the bill number is already taken.
var ErrDuplicateBillNo = errors.New("bill number already exists")

// BillRepository defines the interface for bill data operations
type BillRepository interface {
	// CreateWithStock decrements stock for every item and inserts the bill
	// in one transaction. When some products lack stock nothing is written
	// and their ids are returned. A taken bill number yields ErrDuplicateBillNo.
	CreateWithStock(ctx context.Context, bill *entity.Bill) (failedIDs []uuid.UUID, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	// CancelAndRestock marks a paid bill cancelled and returns its items to
	// stock. It reports false when the bill was not in the Paid state.
	CancelAndRestock(ctx context.Context, id uuid.UUID) (bool, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.BillStatus
	CustomerID *uuid.UUID
	UserID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortOrder  string
}
