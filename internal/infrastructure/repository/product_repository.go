package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stockroom-api/internal/domain/repository"
	"gorm.io/gorm"
)

var productSortColumns = map[string]bool{
	"name":          true,
	"code":          true,
	"category":      true,
	"price":         true,
	"current_stock": true,
	"created_at":    true,
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// CreateBatch inserts products in chunks of 100
func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&products, 100).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) filtered(ctx context.Context, params *domainRepo.ProductFilterParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(Search(params.Search, "name", "code", "category"))

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.LowStock {
		query = query.Where("current_stock <= reorder_level")
	}
	if params.InStock {
		query = query.Where("current_stock > 0")
	}
	return query
}

func (r *productRepository) order(params *domainRepo.ProductFilterParams) string {
	return sortColumn(params.SortBy, productSortColumns, "created_at") + " " + sortDirection(params.SortOrder)
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.filtered(ctx, params)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order(r.order(params)).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, error) {
	var products []entity.Product
	err := r.filtered(ctx, params).Order(r.order(params)).Find(&products).Error
	return products, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("current_stock <= reorder_level").
		Order("current_stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// AdjustStock applies delta to current_stock. Decrements use
// UPDATE ... WHERE current_stock >= amount so stock never goes negative.
func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("current_stock >= ?", -delta)
	}

	result := query.Update("current_stock", gorm.Expr("current_stock + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// decrementStock runs the conditional decrement for every product inside tx
// and collects the ids that lacked stock.
func decrementStock(tx *gorm.DB, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID
	for id, amount := range decrements {
		result := tx.Model(&entity.Product{}).
			Where("id = ? AND current_stock >= ?", id, amount).
			Update("current_stock", gorm.Expr("current_stock - ?", amount))
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			failedIDs = append(failedIDs, id)
		}
	}
	return failedIDs, nil
}

func incrementStock(tx *gorm.DB, increments map[uuid.UUID]int) error {
	for id, amount := range increments {
		if err := tx.Model(&entity.Product{}).
			Where("id = ?", id).
			Update("current_stock", gorm.Expr("current_stock + ?", amount)).Error; err != nil {
			return err
		}
	}
	return nil
}
