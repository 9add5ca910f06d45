package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RawMaterial is an input consumed by production recipes
type RawMaterial struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name         string          `gorm:"size:255;not null;unique" json:"name"`
	Unit         string          `gorm:"size:20;not null" json:"unit"`
	CurrentStock decimal.Decimal `gorm:"type:numeric(15,3);not null;default:0" json:"-"`
	CostPerUnit  decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new raw material
func (m *RawMaterial) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RawMaterial model
func (RawMaterial) TableName() string {
	return "raw_materials"
}

func (m RawMaterial) MarshalJSON() ([]byte, error) {
	type Alias RawMaterial
	return json.Marshal(&struct {
		Alias
		CurrentStock float64 `json:"current_stock"`
		CostPerUnit  float64 `json:"cost_per_unit"`
	}{
		Alias:        Alias(m),
		CurrentStock: m.CurrentStock.InexactFloat64(),
		CostPerUnit:  m.CostPerUnit.InexactFloat64(),
	})
}
