package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Code         string  `json:"code" binding:"omitempty,max=100"`
	Category     string  `json:"category" binding:"omitempty,max=100"`
	Price        float64 `json:"price" binding:"min=0"`
	CurrentStock int     `json:"current_stock" binding:"min=0"`
	ReorderLevel int     `json:"reorder_level" binding:"min=0"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Code         *string  `json:"code" binding:"omitempty,min=1,max=100"`
	Category     *string  `json:"category" binding:"omitempty,max=100"`
	Price        *float64 `json:"price" binding:"omitempty,min=0"`
	CurrentStock *int     `json:"current_stock" binding:"omitempty,min=0"`
	ReorderLevel *int     `json:"reorder_level" binding:"omitempty,min=0"`
}

// AdjustStockRequest adds (positive) or removes (negative) units
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	InStock   bool   `form:"in_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Format    string `form:"format"`
}
