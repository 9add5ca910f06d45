package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recipe is a product's bill of materials
type Recipe struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name               string          `gorm:"size:255;not null;unique" json:"name"`
	Complexity         enum.Complexity `gorm:"not null;default:0" json:"complexity"`
	EstimatedTimeHours decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"-"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`

	Materials []RecipeMaterial `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"materials"`
}

// BeforeCreate generates a UUID before creating a new recipe
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

func (r Recipe) MarshalJSON() ([]byte, error) {
	type Alias Recipe
	materials := r.Materials
	if materials == nil {
		materials = []RecipeMaterial{}
	}
	return json.Marshal(&struct {
		Alias
		Materials          []RecipeMaterial `json:"materials"`
		EstimatedTimeHours float64          `json:"estimated_time_hours"`
	}{
		Alias:              Alias(r),
		Materials:          materials,
		EstimatedTimeHours: r.EstimatedTimeHours.InexactFloat64(),
	})
}

// RecipeMaterial is one material requirement of a recipe. Name and unit are
// copied from the raw material when the recipe is saved.
type RecipeMaterial struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID                uuid.UUID       `gorm:"type:uuid;not null;index" json:"recipe_id"`
	MaterialID              uuid.UUID       `gorm:"type:uuid;not null;index" json:"material_id"`
	MaterialName            string          `gorm:"size:255;not null" json:"material_name"`
	Unit                    string          `gorm:"size:20;not null" json:"unit"`
	RequiredQuantityPerUnit decimal.Decimal `gorm:"type:numeric(15,3);not null" json:"-"`
	WastagePercent          decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"-"`
}

// BeforeCreate generates a UUID before creating a new recipe material
func (rm *RecipeMaterial) BeforeCreate(tx *gorm.DB) error {
	if rm.ID == uuid.Nil {
		rm.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RecipeMaterial model
func (RecipeMaterial) TableName() string {
	return "recipe_materials"
}

func (rm RecipeMaterial) MarshalJSON() ([]byte, error) {
	type Alias RecipeMaterial
	return json.Marshal(&struct {
		Alias
		RequiredQuantityPerUnit float64 `json:"required_quantity_per_unit"`
		WastagePercent          float64 `json:"wastage_percent"`
	}{
		Alias:                   Alias(rm),
		RequiredQuantityPerUnit: rm.RequiredQuantityPerUnit.InexactFloat64(),
		WastagePercent:          rm.WastagePercent.InexactFloat64(),
	})
}
