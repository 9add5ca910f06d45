package request

import "github.com/google/uuid"

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// SetQuantityRequest sets an absolute line quantity; zero removes the line
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateAdjustmentsRequest changes bill-level choices. Omitted fields are kept.
type UpdateAdjustmentsRequest struct {
	CustomerID      *uuid.UUID `json:"customer_id"`
	ClearCustomer   bool       `json:"clear_customer"`
	DiscountPercent *float64   `json:"discount_percent"`
	TaxEnabled      *bool      `json:"tax_enabled"`
	Notes           *string    `json:"notes" binding:"omitempty,max=1000"`
}

// BillFilterRequest represents bill filter parameters
type BillFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
