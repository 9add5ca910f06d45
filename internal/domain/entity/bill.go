package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill is the immutable record of a completed sale
type Bill struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillNo          string          `gorm:"size:50;unique;not null" json:"bill_no"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName    string          `gorm:"size:255;not null" json:"customer_name"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"-"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"-"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"-"`
	TaxEnabled      bool            `gorm:"not null;default:false" json:"tax_enabled"`
	TaxRate         decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"-"`
	TaxAmount       decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"-"`
	GrandTotal      decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"-"`
	Notes           *string         `gorm:"type:text" json:"notes,omitempty"`
	Status          enum.BillStatus `gorm:"not null;default:0;index" json:"status"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items    []BillItem `gorm:"foreignKey:BillID" json:"items"`
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// ItemCount is the number of units sold across all lines.
func (b *Bill) ItemCount() int {
	n := 0
	for _, it := range b.Items {
		n += it.Quantity
	}
	return n
}

// MarshalJSON renders money as numbers
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	items := b.Items
	if items == nil {
		items = []BillItem{}
	}
	return json.Marshal(&struct {
		Alias
		Items           []BillItem `json:"items"`
		Subtotal        float64    `json:"subtotal"`
		DiscountPercent float64    `json:"discount_percent"`
		DiscountAmount  float64    `json:"discount_amount"`
		TaxableAmount   float64    `json:"taxable_amount"`
		TaxRate         float64    `json:"tax_rate"`
		TaxAmount       float64    `json:"tax_amount"`
		TotalAmount     float64    `json:"total_amount"`
	}{
		Alias:           Alias(b),
		Items:           items,
		Subtotal:        b.Subtotal.InexactFloat64(),
		DiscountPercent: b.DiscountPercent.InexactFloat64(),
		DiscountAmount:  b.DiscountAmount.InexactFloat64(),
		TaxableAmount:   b.Subtotal.Sub(b.DiscountAmount).InexactFloat64(),
		TaxRate:         b.TaxRate.InexactFloat64(),
		TaxAmount:       b.TaxAmount.InexactFloat64(),
		TotalAmount:     b.GrandTotal.InexactFloat64(),
	})
}

// BillItem is a line copied from the cart at generation time
type BillItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	LineTotal decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"-"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// MarshalJSON renders money as numbers
func (bi BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(bi),
		UnitPrice: bi.UnitPrice.InexactFloat64(),
		LineTotal: bi.LineTotal.InexactFloat64(),
	})
}
