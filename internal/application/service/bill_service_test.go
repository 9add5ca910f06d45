package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/pkg/pagination"
)

func seedBill(t *testing.T, bills *stubBillRepo, product entity.Product, qty int) *entity.Bill {
	t.Helper()
	bill := &entity.Bill{
		ID:         uuid.New(),
		BillNo:     "BILL-" + uuid.NewString()[:8],
		CustomerID: uuid.New(),
		GrandTotal: product.Price.Mul(decimal.NewFromInt(int64(qty))),
		Status:     enum.BillStatusPaid,
		Items: []entity.BillItem{
			{ID: uuid.New(), ProductID: product.ID, Name: product.Name, UnitPrice: product.Price, Quantity: qty},
		},
	}
	failed, err := bills.CreateWithStock(context.Background(), bill)
	require.NoError(t, err)
	require.Empty(t, failed)
	return bill
}

func TestBillService_CancelRestoresStock(t *testing.T) {
	widget := entity.Product{ID: uuid.New(), Name: "Widget", Code: "W", Price: decimal.NewFromInt(10), CurrentStock: 5}
	products := newStubProductRepo(widget)
	bills := newStubBillRepo(products)
	svc := NewBillService(bills)
	ctx := context.Background()

	bill := seedBill(t, bills, widget, 3)
	assert.Equal(t, 2, products.stock(widget.ID))

	cancelled, err := svc.CancelBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.BillStatusCancelled, cancelled.Status)
	assert.Equal(t, 5, products.stock(widget.ID))

	_, err = svc.CancelBill(ctx, bill.ID)
	requireAppError(t, err, http.StatusConflict, "")
	assert.Equal(t, 5, products.stock(widget.ID))

	_, err = svc.CancelBill(ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestBillService_GetAndList(t *testing.T) {
	widget := entity.Product{ID: uuid.New(), Name: "Widget", Code: "W", Price: decimal.NewFromInt(10), CurrentStock: 10}
	products := newStubProductRepo(widget)
	bills := newStubBillRepo(products)
	svc := NewBillService(bills)
	ctx := context.Background()

	first := seedBill(t, bills, widget, 1)
	seedBill(t, bills, widget, 2)

	got, err := svc.GetBillByNumber(ctx, first.BillNo)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = svc.GetBill(ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound, "")

	result, err := svc.ListBills(ctx, &repository.BillFilterParams{})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, 1, result.Pagination.CurrentPage)

	cancelledOnly := enum.BillStatusCancelled
	result, err = svc.ListBills(ctx, &repository.BillFilterParams{Status: &cancelledOnly})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Items)
}

func TestCustomerService(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)
	ctx := context.Background()

	email := " ops@acme.test "
	blank := "   "
	c, err := svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Acme", Email: &email, Phone: &blank})
	require.NoError(t, err)
	require.NotNil(t, c.Email)
	assert.Equal(t, "ops@acme.test", *c.Email)
	assert.Nil(t, c.Phone)

	dup := "OPS@acme.test"
	_, err = svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Other", Email: &dup})
	requireAppError(t, err, http.StatusConflict, "")

	other, err := svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Beta"})
	require.NoError(t, err)
	_, err = svc.UpdateCustomer(ctx, &UpdateCustomerInput{ID: other.ID, Email: &dup})
	requireAppError(t, err, http.StatusConflict, "")

	// keeping your own email is fine
	name := "Acme Ltd"
	updated, err := svc.UpdateCustomer(ctx, &UpdateCustomerInput{ID: c.ID, Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)

	list, err := svc.ListCustomers(ctx, &pagination.PaginationParams{Page: 0, PerPage: 0}, "acme")
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 15, list.Pagination.PerPage)

	require.NoError(t, svc.DeleteCustomer(ctx, c.ID))
	err = svc.DeleteCustomer(ctx, c.ID)
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestDashboardService(t *testing.T) {
	repo := &stubAnalyticsRepo{
		inventory: repository.InventorySummary{ProductCount: 4, LowStockCount: 1, StockValue: decimal.RequireFromString("1234.567")},
		sales:     repository.SalesSummary{BillCount: 3, TotalRevenue: decimal.RequireFromString("300.5"), RevenueThisMonth: decimal.NewFromInt(100)},
		customers: 2,
		top: []repository.TopProductResult{
			{ProductID: uuid.New(), ProductName: "Widget", QuantitySold: 9, Revenue: decimal.NewFromInt(90)},
		},
	}
	svc := NewDashboardService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) }

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalProducts)
	assert.Equal(t, 1234.57, stats.StockValue)
	assert.Equal(t, 300.5, stats.TotalRevenue)
	assert.Equal(t, int64(2), stats.TotalCustomers)
	assert.Len(t, stats.DailySalesData, 7)
	assert.Equal(t, 7*24, int(repo.dailyTo.Sub(repo.dailyFrom).Hours()))
	assert.Equal(t, "Mar 04", stats.DailySalesData[0].Date)
	assert.Equal(t, "Mar 10", stats.DailySalesData[6].Date)
	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, "Widget", stats.TopProducts[0].Name)

	repo.err = errStubFailure
	_, err = svc.GetDashboardStats(context.Background())
	assert.ErrorIs(t, err, errStubFailure)
}
