package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/internal/infrastructure/session"
)

type productionFixture struct {
	svc     *ProductionService
	steel   entity.RawMaterial
	bolts   entity.RawMaterial
	history *session.MemoryHistory
}

func newProductionFixture(t *testing.T) *productionFixture {
	t.Helper()
	steel := entity.RawMaterial{ID: uuid.New(), Name: "Steel", Unit: "kg", CurrentStock: decimal.NewFromInt(30), CostPerUnit: decimal.NewFromInt(2)}
	bolts := entity.RawMaterial{ID: uuid.New(), Name: "Bolts", Unit: "pcs", CurrentStock: decimal.NewFromInt(1000), CostPerUnit: decimal.RequireFromString("0.05")}

	history := session.NewMemoryHistory(5)
	svc := NewProductionService(newStubMaterialRepo(steel, bolts), newStubRecipeRepo(), history)
	return &productionFixture{svc: svc, steel: steel, bolts: bolts, history: history}
}

func (f *productionFixture) frameRecipe(t *testing.T) *entity.Recipe {
	t.Helper()
	recipe, err := f.svc.CreateRecipe(context.Background(), &RecipeInput{
		Name:               "Frame",
		Complexity:         "medium",
		EstimatedTimeHours: 1.5,
		Materials: []RecipeMaterialInput{
			{MaterialID: f.steel.ID, RequiredQuantityPerUnit: 10},
			{MaterialID: f.bolts.ID, RequiredQuantityPerUnit: 8, WastagePercent: 5},
		},
	})
	require.NoError(t, err)
	return recipe
}

func TestProductionService_CreateRecipeResolvesMaterials(t *testing.T) {
	f := newProductionFixture(t)
	recipe := f.frameRecipe(t)

	assert.Equal(t, "Frame", recipe.Name)
	assert.Equal(t, enum.ComplexityMedium, recipe.Complexity)
	require.Len(t, recipe.Materials, 2)
	assert.Equal(t, "Steel", recipe.Materials[0].MaterialName)
	assert.Equal(t, "kg", recipe.Materials[0].Unit)
	assert.Equal(t, "pcs", recipe.Materials[1].Unit)
	assert.True(t, recipe.Materials[1].WastagePercent.Equal(decimal.NewFromInt(5)))
}

func TestProductionService_CreateRecipeValidation(t *testing.T) {
	f := newProductionFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateRecipe(ctx, &RecipeInput{Name: "Empty"})
	requireAppError(t, err, http.StatusUnprocessableEntity, "")

	_, err = f.svc.CreateRecipe(ctx, &RecipeInput{
		Name:      "Ghost",
		Materials: []RecipeMaterialInput{{MaterialID: uuid.New(), RequiredQuantityPerUnit: 1}},
	})
	requireAppError(t, err, http.StatusUnprocessableEntity, "")

	_, err = f.svc.CreateRecipe(ctx, &RecipeInput{
		Name:       "Weird",
		Complexity: "extreme",
		Materials:  []RecipeMaterialInput{{MaterialID: f.steel.ID, RequiredQuantityPerUnit: 1}},
	})
	requireAppError(t, err, http.StatusUnprocessableEntity, "")

	_, err = f.svc.CreateRecipe(ctx, &RecipeInput{
		Name: "Twice",
		Materials: []RecipeMaterialInput{
			{MaterialID: f.steel.ID, RequiredQuantityPerUnit: 1},
			{MaterialID: f.steel.ID, RequiredQuantityPerUnit: 2},
		},
	})
	requireAppError(t, err, http.StatusUnprocessableEntity, "")

	f.frameRecipe(t)
	_, err = f.svc.CreateRecipe(ctx, &RecipeInput{
		Name:      "frame",
		Materials: []RecipeMaterialInput{{MaterialID: f.steel.ID, RequiredQuantityPerUnit: 1}},
	})
	requireAppError(t, err, http.StatusConflict, "")
}

func TestProductionService_Calculate(t *testing.T) {
	f := newProductionFixture(t)
	ctx := context.Background()
	recipe := f.frameRecipe(t)
	userID := uuid.New()

	calc, err := f.svc.Calculate(ctx, &CalculateInput{UserID: userID, RecipeID: recipe.ID, Quantity: 5})
	require.NoError(t, err)

	assert.Equal(t, recipe.ID, calc.ProductID)
	assert.Equal(t, 5, calc.RequestedQuantity)
	assert.Equal(t, 3, calc.PossibleQuantity)
	assert.False(t, calc.Feasible)
	assert.Equal(t, []string{"Steel: short by 20 kg"}, calc.Bottlenecks)
	// steel 50*2 + bolts 8*1.05*5*0.05
	assert.True(t, calc.TotalCost.Equal(decimal.RequireFromString("102.1")), calc.TotalCost.String())
	assert.True(t, calc.EstimatedTime.Equal(decimal.RequireFromString("7.5")))

	history, err := f.svc.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 5, history[0].RequestedQuantity)

	// history is per user
	other, err := f.svc.History(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
	assert.NotNil(t, other)
}

func TestProductionService_CalculateErrors(t *testing.T) {
	f := newProductionFixture(t)
	ctx := context.Background()
	recipe := f.frameRecipe(t)

	_, err := f.svc.Calculate(ctx, &CalculateInput{UserID: uuid.New(), RecipeID: recipe.ID, Quantity: 0})
	requireAppError(t, err, http.StatusUnprocessableEntity, ReasonInvalidQuantity)

	_, err = f.svc.Calculate(ctx, &CalculateInput{UserID: uuid.New(), RecipeID: uuid.New(), Quantity: 1})
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestProductionService_HistoryIsCapped(t *testing.T) {
	f := newProductionFixture(t)
	ctx := context.Background()
	recipe := f.frameRecipe(t)
	userID := uuid.New()

	for q := 1; q <= 7; q++ {
		_, err := f.svc.Calculate(ctx, &CalculateInput{UserID: userID, RecipeID: recipe.ID, Quantity: q})
		require.NoError(t, err)
	}

	history, err := f.svc.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, 7, history[0].RequestedQuantity)
	assert.Equal(t, 3, history[4].RequestedQuantity)

	require.NoError(t, f.svc.ClearHistory(ctx, userID))
	history, err = f.svc.History(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProductionService_Materials(t *testing.T) {
	f := newProductionFixture(t)
	ctx := context.Background()

	m, err := f.svc.CreateMaterial(ctx, &MaterialInput{Name: "Glue", Unit: "l", CurrentStock: 2.5, CostPerUnit: 7.25})
	require.NoError(t, err)
	assert.True(t, m.CurrentStock.Equal(decimal.RequireFromString("2.5")))

	_, err = f.svc.CreateMaterial(ctx, &MaterialInput{Name: "steel", Unit: "kg"})
	requireAppError(t, err, http.StatusConflict, "")

	_, err = f.svc.CreateMaterial(ctx, &MaterialInput{Name: "Sand", Unit: "kg", CurrentStock: -1})
	requireAppError(t, err, http.StatusUnprocessableEntity, "")

	updated, err := f.svc.UpdateMaterial(ctx, m.ID, &MaterialInput{Name: "Glue", Unit: "l", CurrentStock: 4, CostPerUnit: 7})
	require.NoError(t, err)
	assert.True(t, updated.CurrentStock.Equal(decimal.NewFromInt(4)))

	list, err := f.svc.ListMaterials(ctx, nil, "")
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)

	require.NoError(t, f.svc.DeleteMaterial(ctx, m.ID))
	_, err = f.svc.GetMaterial(ctx, m.ID)
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestProductionService_UpdateRecipe(t *testing.T) {
	f := newProductionFixture(t)
	ctx := context.Background()
	recipe := f.frameRecipe(t)

	updated, err := f.svc.UpdateRecipe(ctx, recipe.ID, &RecipeInput{
		Name:               "Frame",
		Complexity:         "High",
		EstimatedTimeHours: 2,
		Materials:          []RecipeMaterialInput{{MaterialID: f.steel.ID, RequiredQuantityPerUnit: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, updated.ID)
	assert.Equal(t, enum.ComplexityHigh, updated.Complexity)
	require.Len(t, updated.Materials, 1)

	calc, err := f.svc.Calculate(ctx, &CalculateInput{UserID: uuid.New(), RecipeID: recipe.ID, Quantity: 6})
	require.NoError(t, err)
	assert.True(t, calc.Feasible)
	assert.Empty(t, calc.Bottlenecks)

	require.NoError(t, f.svc.DeleteRecipe(ctx, recipe.ID))
	_, err = f.svc.GetRecipe(ctx, recipe.ID)
	requireAppError(t, err, http.StatusNotFound, "")
}
