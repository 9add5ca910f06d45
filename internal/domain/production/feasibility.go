package production

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/stockroom-api/internal/domain/entity"
)

// ErrInvalidQuantity is returned for a requested quantity below one.
var ErrInvalidQuantity = errors.New("requested quantity must be at least 1")

// MaterialStock is what the warehouse currently holds of one raw material.
type MaterialStock struct {
	Available   decimal.Decimal
	CostPerUnit decimal.Decimal
}

// Inventory looks up material stock by id.
type Inventory interface {
	Material(id uuid.UUID) (MaterialStock, bool)
}

// InventoryMap is a map-backed Inventory.
type InventoryMap map[uuid.UUID]MaterialStock

// NewInventory builds an InventoryMap from raw material rows.
func NewInventory(materials []entity.RawMaterial) InventoryMap {
	inv := make(InventoryMap, len(materials))
	for _, m := range materials {
		inv[m.ID] = MaterialStock{Available: m.CurrentStock, CostPerUnit: m.CostPerUnit}
	}
	return inv
}

func (m InventoryMap) Material(id uuid.UUID) (MaterialStock, bool) {
	s, ok := m[id]
	return s, ok
}

// MaterialBreakdown is the per-material part of a calculation.
type MaterialBreakdown struct {
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Shortage     decimal.Decimal `json:"shortage"`
	Cost         decimal.Decimal `json:"cost"`
	Unit         string          `json:"unit"`
}

// Calculation is the outcome of one feasibility check.
type Calculation struct {
	ProductID         uuid.UUID           `json:"product_id"`
	ProductName       string              `json:"product_name"`
	RequestedQuantity int                 `json:"requested_quantity"`
	PossibleQuantity  int                 `json:"possible_quantity"`
	Feasible          bool                `json:"feasible"`
	TotalCost         decimal.Decimal     `json:"total_cost"`
	EstimatedTime     decimal.Decimal     `json:"estimated_time"`
	Bottlenecks       []string            `json:"bottlenecks"`
	MaterialBreakdown []MaterialBreakdown `json:"material_breakdown"`
}

// Calculate works out how many units of recipe can be made from inventory
// when requested units are asked for.
//
// Each material needs perUnit * requested * (1 + wastage/100). A material
// whose stock falls short limits production to floor(available / effective
// per-unit need). Materials with a zero per-unit need are never a limit.
// Cost always reflects the full requested quantity. Materials missing from
// inventory count as zero available at zero cost.
func Calculate(recipe *entity.Recipe, requested int, inv Inventory) (*Calculation, error) {
	if requested <= 0 {
		return nil, ErrInvalidQuantity
	}
	if recipe == nil {
		return nil, errors.New("recipe is required")
	}

	qty := decimal.NewFromInt(int64(requested))
	calc := &Calculation{
		ProductID:         recipe.ID,
		ProductName:       recipe.Name,
		RequestedQuantity: requested,
		PossibleQuantity:  requested,
		TotalCost:         decimal.Zero,
		EstimatedTime:     recipe.EstimatedTimeHours.Mul(qty),
		Bottlenecks:       []string{},
		MaterialBreakdown: make([]MaterialBreakdown, 0, len(recipe.Materials)),
	}

	for _, req := range recipe.Materials {
		var stock MaterialStock
		if inv != nil {
			stock, _ = inv.Material(req.MaterialID)
		}
		available := decimal.Max(stock.Available, decimal.Zero)

		perUnit := req.RequiredQuantityPerUnit.Mul(decimal.NewFromInt(1).Add(req.WastagePercent.Shift(-2)))
		required := perUnit.Mul(qty)
		shortage := decimal.Max(required.Sub(available), decimal.Zero)
		cost := required.Mul(stock.CostPerUnit)

		calc.MaterialBreakdown = append(calc.MaterialBreakdown, MaterialBreakdown{
			MaterialID:   req.MaterialID,
			MaterialName: req.MaterialName,
			Required:     required,
			Available:    available,
			Shortage:     shortage,
			Cost:         cost,
			Unit:         req.Unit,
		})
		calc.TotalCost = calc.TotalCost.Add(cost)

		if !shortage.IsPositive() || !perUnit.IsPositive() {
			continue
		}

		supportable := available.Div(perUnit).Floor().IntPart()
		if int(supportable) < calc.PossibleQuantity {
			calc.PossibleQuantity = int(supportable)
		}
		calc.Bottlenecks = append(calc.Bottlenecks, fmt.Sprintf("%s: short by %s %s", req.MaterialName, shortage.Round(3).String(), req.Unit))
	}

	calc.Feasible = calc.PossibleQuantity == requested
	return calc, nil
}
