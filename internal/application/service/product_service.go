package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/pkg/apperror"
	"github.com/sangkips/stockroom-api/pkg/pagination"
	"github.com/sangkips/stockroom-api/pkg/utils"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name         string
	Code         string
	Category     string
	Price        float64
	CurrentStock int
	ReorderLevel int
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if fieldErrs := validateStockFields(input.Price, input.CurrentStock, input.ReorderLevel); len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	// Auto-generate code if not provided
	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existingProduct, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	product := &entity.Product{
		Name:         strings.TrimSpace(input.Name),
		Code:         code,
		Category:     strings.TrimSpace(input.Category),
		Price:        moneyFromFloat(input.Price),
		CurrentStock: input.CurrentStock,
		ReorderLevel: input.ReorderLevel,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID           uuid.UUID
	Name         *string
	Code         *string
	Category     *string
	Price        *float64
	CurrentStock *int
	ReorderLevel *int
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	// Check if new code is unique
	if input.Code != nil && *input.Code != product.Code {
		code := strings.TrimSpace(*input.Code)
		existingProduct, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existingProduct != nil && existingProduct.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = code
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		product.Price = moneyFromFloat(*input.Price)
	}
	if input.CurrentStock != nil {
		product.CurrentStock = *input.CurrentStock
	}
	if input.ReorderLevel != nil {
		product.ReorderLevel = *input.ReorderLevel
	}

	if fieldErrs := validateStockFields(product.Price.InexactFloat64(), product.CurrentStock, product.ReorderLevel); len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, product.ID)
}

// GetLowStockProducts returns products at or below their reorder level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

// Categories returns the distinct product categories
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// AdjustStockInput is a manual stock correction (receiving goods, write-offs).
type AdjustStockInput struct {
	ID    uuid.UUID
	Delta int
}

// AdjustStock applies a signed correction to a product's stock
func (s *ProductService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*entity.Product, error) {
	if input.Delta == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "delta", Message: "Delta must not be zero"},
		})
	}

	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	applied, err := s.productRepo.AdjustStock(ctx, input.ID, input.Delta)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, &apperror.AppError{
			Code:    http.StatusConflict,
			Message: fmt.Sprintf("Only %d of %s in stock", product.CurrentStock, product.Name),
			Reason:  ReasonInsufficientStock,
		}
	}

	return s.productRepo.GetByID(ctx, input.ID)
}

// ImportProductRow represents a single row from the import file
type ImportProductRow struct {
	Name         string
	Code         string
	Category     string
	Price        float64
	CurrentStock int
	ReorderLevel int

	// Line is the row's line in the upload; the header is line 1.
	Line int
	// Invalid is set when a cell could not be parsed.
	Invalid *ImportRowError
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products from parsed import rows
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	// code -> row number, for duplicates within the file
	seenCodes := make(map[string]int)

	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := row.Line
		if rowNum == 0 {
			rowNum = i + 2 // row 1 is the header
		}

		if row.Invalid != nil {
			rowErr := *row.Invalid
			rowErr.Row = rowNum
			rowErrors = append(rowErrors, rowErr)
			continue
		}
		if strings.TrimSpace(row.Name) == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}
		if fieldErrs := validateStockFields(row.Price, row.CurrentStock, row.ReorderLevel); len(fieldErrs) > 0 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: fieldErrs[0].Field, Message: fieldErrs[0].Message})
			continue
		}

		code := strings.TrimSpace(row.Code)
		if code == "" {
			code = utils.GenerateProductCode()
		}

		if prevRow, exists := seenCodes[code]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Duplicate code '%s' (same as row %d)", code, prevRow),
			})
			continue
		}

		existingProduct, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "code", Message: "Error checking code: " + err.Error()})
			continue
		}
		if existingProduct != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Product code '%s' already exists", code),
			})
			continue
		}

		seenCodes[code] = rowNum

		validProducts = append(validProducts, entity.Product{
			Name:         strings.TrimSpace(row.Name),
			Code:         code,
			Category:     strings.TrimSpace(row.Category),
			Price:        moneyFromFloat(row.Price),
			CurrentStock: row.CurrentStock,
			ReorderLevel: row.ReorderLevel,
		})
	}

	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, apperror.NewAppError(500, "Failed to import products: "+err.Error())
		}
	}

	result.Successful = len(validProducts)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}

func validateStockFields(price float64, stock, reorder int) []apperror.FieldError {
	var errs []apperror.FieldError
	if price < 0 {
		errs = append(errs, apperror.FieldError{Field: "price", Message: "Price must not be negative"})
	}
	if stock < 0 {
		errs = append(errs, apperror.FieldError{Field: "current_stock", Message: "Stock must not be negative"})
	}
	if reorder < 0 {
		errs = append(errs, apperror.FieldError{Field: "reorder_level", Message: "Reorder level must not be negative"})
	}
	return errs
}

func moneyFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
