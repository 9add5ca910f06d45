package request

import "github.com/google/uuid"

// MaterialRequest creates or replaces a raw material
type MaterialRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=255"`
	Unit         string  `json:"unit" binding:"required,max=20"`
	CurrentStock float64 `json:"current_stock" binding:"min=0"`
	CostPerUnit  float64 `json:"cost_per_unit" binding:"min=0"`
}

// RecipeMaterialRequest is one material requirement of a recipe
type RecipeMaterialRequest struct {
	MaterialID              uuid.UUID `json:"material_id" binding:"required"`
	RequiredQuantityPerUnit float64   `json:"required_quantity_per_unit" binding:"min=0"`
	WastagePercent          float64   `json:"wastage_percent" binding:"min=0,max=100"`
}

// RecipeRequest creates or replaces a recipe
type RecipeRequest struct {
	Name               string                  `json:"name" binding:"required,min=1,max=255"`
	Complexity         string                  `json:"complexity"`
	EstimatedTimeHours float64                 `json:"estimated_time_hours" binding:"min=0"`
	Materials          []RecipeMaterialRequest `json:"materials" binding:"required,min=1,dive"`
}

// CalculateRequest asks whether quantity units of a recipe can be produced
type CalculateRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Quantity int       `json:"quantity"`
}
