package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventorySummary aggregates the product catalogue
type InventorySummary struct {
	ProductCount  int64
	LowStockCount int64
	OutOfStock    int64
	StockValue    decimal.Decimal
}

// SalesSummary aggregates paid bills
type SalesSummary struct {
	BillCount        int64
	TotalRevenue     decimal.Decimal
	RevenueThisMonth decimal.Decimal
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date      time.Time
	Revenue   decimal.Decimal
	BillCount int64
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	QuantitySold int64
	Revenue      decimal.Decimal
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	InventorySummary(ctx context.Context) (*InventorySummary, error)
	SalesSummary(ctx context.Context, monthStart time.Time) (*SalesSummary, error)
	CustomerCount(ctx context.Context) (int64, error)
	// DailySales returns one row per day in [from, to), zero-filled
	DailySales(ctx context.Context, from, to time.Time) ([]DailySalesResult, error)
	TopProducts(ctx context.Context, limit int) ([]TopProductResult, error)
}
