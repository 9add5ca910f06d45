package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) InventorySummary(ctx context.Context) (*domainRepo.InventorySummary, error) {
	var row struct {
		ProductCount  int64
		LowStockCount int64
		OutOfStock    int64
		StockValue    decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Select(`
			COUNT(*) AS product_count,
			COUNT(*) FILTER (WHERE current_stock <= reorder_level) AS low_stock_count,
			COUNT(*) FILTER (WHERE current_stock = 0) AS out_of_stock,
			COALESCE(SUM(price * current_stock), 0) AS stock_value`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &domainRepo.InventorySummary{
		ProductCount:  row.ProductCount,
		LowStockCount: row.LowStockCount,
		OutOfStock:    row.OutOfStock,
		StockValue:    row.StockValue,
	}, nil
}

func (r *analyticsRepository) SalesSummary(ctx context.Context, monthStart time.Time) (*domainRepo.SalesSummary, error) {
	var row struct {
		BillCount        int64
		TotalRevenue     decimal.Decimal
		RevenueThisMonth decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Select(`
			COUNT(*) AS bill_count,
			COALESCE(SUM(grand_total), 0) AS total_revenue,
			COALESCE(SUM(grand_total) FILTER (WHERE created_at >= ?), 0) AS revenue_this_month`, monthStart).
		Where("status = ?", enum.BillStatusPaid).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &domainRepo.SalesSummary{
		BillCount:        row.BillCount,
		TotalRevenue:     row.TotalRevenue,
		RevenueThisMonth: row.RevenueThisMonth,
	}, nil
}

func (r *analyticsRepository) CustomerCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) DailySales(ctx context.Context, from, to time.Time) ([]domainRepo.DailySalesResult, error) {
	var rows []struct {
		Day       time.Time
		Revenue   decimal.Decimal
		BillCount int64
	}

	err := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Select("date_trunc('day', created_at) AS day, COALESCE(SUM(grand_total), 0) AS revenue, COUNT(*) AS bill_count").
		Where("status = ? AND created_at >= ? AND created_at < ?", enum.BillStatusPaid, from, to).
		Group("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]domainRepo.DailySalesResult, len(rows))
	for _, row := range rows {
		byDay[row.Day.Format(time.DateOnly)] = domainRepo.DailySalesResult{
			Date:      row.Day,
			Revenue:   row.Revenue,
			BillCount: row.BillCount,
		}
	}

	results := make([]domainRepo.DailySalesResult, 0)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		if res, ok := byDay[day.Format(time.DateOnly)]; ok {
			res.Date = day
			results = append(results, res)
			continue
		}
		results = append(results, domainRepo.DailySalesResult{Date: day, Revenue: decimal.Zero})
	}

	return results, nil
}

func (r *analyticsRepository) TopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var rows []struct {
		ProductID    uuid.UUID
		ProductName  string
		QuantitySold int64
		Revenue      decimal.Decimal
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			bi.product_id AS product_id,
			MAX(bi.name) AS product_name,
			COALESCE(SUM(bi.quantity), 0) AS quantity_sold,
			COALESCE(SUM(bi.line_total), 0) AS revenue
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.status = ?
		GROUP BY bi.product_id
		ORDER BY revenue DESC
		LIMIT ?
	`, enum.BillStatusPaid, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]domainRepo.TopProductResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, domainRepo.TopProductResult(row))
	}
	return results, nil
}
