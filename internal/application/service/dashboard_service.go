package service

import (
	"context"
	"time"

	"github.com/sangkips/stockroom-api/internal/domain/repository"
)

const (
	dashboardDays        = 7
	dashboardTopProducts = 5
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo, now: time.Now}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalProducts   int64             `json:"total_products"`
	LowStockCount   int64             `json:"low_stock_count"`
	OutOfStockCount int64             `json:"out_of_stock_count"`
	StockValue      float64           `json:"stock_value"`
	TotalCustomers  int64             `json:"total_customers"`
	TotalBills      int64             `json:"total_bills"`
	TotalRevenue    float64           `json:"total_revenue"`
	MonthlyRevenue  float64           `json:"monthly_revenue"`
	DailySalesData  []DailySalesPoint `json:"daily_sales_data"`
	TopProducts     []TopProductPoint `json:"top_products"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date      string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	BillCount int64   `json:"bill_count"`
}

// TopProductPoint is a best-selling product by revenue
type TopProductPoint struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	QuantitySold int64   `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// GetDashboardStats returns dashboard statistics computed from stored data
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	inventory, err := s.analyticsRepo.InventorySummary(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := s.analyticsRepo.SalesSummary(ctx, startOfMonth)
	if err != nil {
		return nil, err
	}

	customers, err := s.analyticsRepo.CustomerCount(ctx)
	if err != nil {
		return nil, err
	}

	// last 7 days including today
	from := startOfToday.AddDate(0, 0, -(dashboardDays - 1))
	daily, err := s.analyticsRepo.DailySales(ctx, from, startOfToday.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	top, err := s.analyticsRepo.TopProducts(ctx, dashboardTopProducts)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts:   inventory.ProductCount,
		LowStockCount:   inventory.LowStockCount,
		OutOfStockCount: inventory.OutOfStock,
		StockValue:      inventory.StockValue.Round(2).InexactFloat64(),
		TotalCustomers:  customers,
		TotalBills:      sales.BillCount,
		TotalRevenue:    sales.TotalRevenue.Round(2).InexactFloat64(),
		MonthlyRevenue:  sales.RevenueThisMonth.Round(2).InexactFloat64(),
		DailySalesData:  make([]DailySalesPoint, 0, len(daily)),
		TopProducts:     make([]TopProductPoint, 0, len(top)),
		GeneratedAt:     now,
	}

	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:      d.Date.Format("Jan 02"),
			Revenue:   d.Revenue.Round(2).InexactFloat64(),
			BillCount: d.BillCount,
		})
	}
	for _, p := range top {
		stats.TopProducts = append(stats.TopProducts, TopProductPoint{
			ProductID:    p.ProductID.String(),
			Name:         p.ProductName,
			QuantitySold: p.QuantitySold,
			Revenue:      p.Revenue.Round(2).InexactFloat64(),
		})
	}

	return stats, nil
}
