package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	"github.com/sangkips/stockroom-api/internal/domain/production"
	"github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/internal/infrastructure/session"
	"github.com/sangkips/stockroom-api/pkg/apperror"
	"github.com/sangkips/stockroom-api/pkg/pagination"
)

// ProductionService manages raw materials and recipes and runs
// feasibility calculations against current material stock.
type ProductionService struct {
	materialRepo repository.RawMaterialRepository
	recipeRepo   repository.RecipeRepository
	history      session.HistoryStore
}

// NewProductionService creates a new production service
func NewProductionService(
	materialRepo repository.RawMaterialRepository,
	recipeRepo repository.RecipeRepository,
	history session.HistoryStore,
) *ProductionService {
	return &ProductionService{
		materialRepo: materialRepo,
		recipeRepo:   recipeRepo,
		history:      history,
	}
}

// MaterialInput represents the create or update raw material input
type MaterialInput struct {
	Name         string
	Unit         string
	CurrentStock float64
	CostPerUnit  float64
}

func (in *MaterialInput) validate() []apperror.FieldError {
	var errs []apperror.FieldError
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if strings.TrimSpace(in.Unit) == "" {
		errs = append(errs, apperror.FieldError{Field: "unit", Message: "Unit is required"})
	}
	if in.CurrentStock < 0 {
		errs = append(errs, apperror.FieldError{Field: "current_stock", Message: "Stock must not be negative"})
	}
	if in.CostPerUnit < 0 {
		errs = append(errs, apperror.FieldError{Field: "cost_per_unit", Message: "Cost must not be negative"})
	}
	return errs
}

// CreateMaterial creates a raw material
func (s *ProductionService) CreateMaterial(ctx context.Context, input *MaterialInput) (*entity.RawMaterial, error) {
	if errs := input.validate(); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	name := strings.TrimSpace(input.Name)
	existing, err := s.materialRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A material with this name already exists")
	}

	material := &entity.RawMaterial{
		Name:         name,
		Unit:         strings.TrimSpace(input.Unit),
		CurrentStock: quantityFromFloat(input.CurrentStock),
		CostPerUnit:  moneyFromFloat(input.CostPerUnit),
	}
	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// GetMaterial retrieves a raw material by ID
func (s *ProductionService) GetMaterial(ctx context.Context, id uuid.UUID) (*entity.RawMaterial, error) {
	material, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, apperror.NewNotFoundError("Material")
	}
	return material, nil
}

// ListMaterials lists raw materials
func (s *ProductionService) ListMaterials(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.RawMaterial], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	materials, total, err := s.materialRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(materials, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateMaterial replaces a raw material's fields
func (s *ProductionService) UpdateMaterial(ctx context.Context, id uuid.UUID, input *MaterialInput) (*entity.RawMaterial, error) {
	if errs := input.validate(); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	material, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if !strings.EqualFold(name, material.Name) {
		existing, err := s.materialRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != material.ID {
			return nil, apperror.NewConflictError("A material with this name already exists")
		}
	}

	material.Name = name
	material.Unit = strings.TrimSpace(input.Unit)
	material.CurrentStock = quantityFromFloat(input.CurrentStock)
	material.CostPerUnit = moneyFromFloat(input.CostPerUnit)

	if err := s.materialRepo.Update(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// DeleteMaterial deletes a raw material
func (s *ProductionService) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetMaterial(ctx, id); err != nil {
		return err
	}
	return s.materialRepo.Delete(ctx, id)
}

// RecipeMaterialInput is one requirement line of a recipe
type RecipeMaterialInput struct {
	MaterialID              uuid.UUID
	RequiredQuantityPerUnit float64
	WastagePercent          float64
}

// RecipeInput represents the create or update recipe input
type RecipeInput struct {
	Name               string
	Complexity         string
	EstimatedTimeHours float64
	Materials          []RecipeMaterialInput
}

// CreateRecipe creates a recipe with its material requirements
func (s *ProductionService) CreateRecipe(ctx context.Context, input *RecipeInput) (*entity.Recipe, error) {
	recipe, err := s.buildRecipe(ctx, uuid.Nil, input)
	if err != nil {
		return nil, err
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe with its materials
func (s *ProductionService) GetRecipe(ctx context.Context, id uuid.UUID) (*entity.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, apperror.NewNotFoundError("Recipe")
	}
	return recipe, nil
}

// ListRecipes lists recipes
func (s *ProductionService) ListRecipes(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Recipe], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	recipes, total, err := s.recipeRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(recipes, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateRecipe replaces a recipe and its full material list
func (s *ProductionService) UpdateRecipe(ctx context.Context, id uuid.UUID, input *RecipeInput) (*entity.Recipe, error) {
	current, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	recipe, err := s.buildRecipe(ctx, current.ID, input)
	if err != nil {
		return nil, err
	}
	recipe.CreatedAt = current.CreatedAt

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe deletes a recipe and its requirements
func (s *ProductionService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return err
	}
	return s.recipeRepo.Delete(ctx, id)
}

// buildRecipe validates input and resolves every material so the stored
// requirement carries the material's current name and unit.
func (s *ProductionService) buildRecipe(ctx context.Context, id uuid.UUID, input *RecipeInput) (*entity.Recipe, error) {
	var errs []apperror.FieldError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	complexity, err := enum.ParseComplexity(input.Complexity)
	if err != nil {
		errs = append(errs, apperror.FieldError{Field: "complexity", Message: "Complexity must be Low, Medium or High"})
	}
	if input.EstimatedTimeHours < 0 {
		errs = append(errs, apperror.FieldError{Field: "estimated_time_hours", Message: "Estimated time must not be negative"})
	}
	if len(input.Materials) == 0 {
		errs = append(errs, apperror.FieldError{Field: "materials", Message: "At least one material is required"})
	}

	ids := make([]uuid.UUID, 0, len(input.Materials))
	seen := make(map[uuid.UUID]bool, len(input.Materials))
	for i, m := range input.Materials {
		field := fmt.Sprintf("materials[%d]", i)
		if seen[m.MaterialID] {
			errs = append(errs, apperror.FieldError{Field: field + ".material_id", Message: "Material is listed twice"})
			continue
		}
		seen[m.MaterialID] = true
		ids = append(ids, m.MaterialID)
		if m.RequiredQuantityPerUnit < 0 {
			errs = append(errs, apperror.FieldError{Field: field + ".required_quantity_per_unit", Message: "Quantity must not be negative"})
		}
		if m.WastagePercent < 0 || m.WastagePercent > 100 {
			errs = append(errs, apperror.FieldError{Field: field + ".wastage_percent", Message: "Wastage must be between 0 and 100"})
		}
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	existing, err := s.recipeRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, apperror.NewConflictError("A recipe with this name already exists")
	}

	materials, err := s.materialRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.RawMaterial, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}

	recipe := &entity.Recipe{
		ID:                 id,
		Name:               name,
		Complexity:         complexity,
		EstimatedTimeHours: decimal.NewFromFloat(input.EstimatedTimeHours).Round(2),
		Materials:          make([]entity.RecipeMaterial, 0, len(input.Materials)),
	}
	for i, m := range input.Materials {
		material, ok := byID[m.MaterialID]
		if !ok {
			errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("materials[%d].material_id", i), Message: "Material not found"})
			continue
		}
		recipe.Materials = append(recipe.Materials, entity.RecipeMaterial{
			RecipeID:                id,
			MaterialID:              material.ID,
			MaterialName:            material.Name,
			Unit:                    material.Unit,
			RequiredQuantityPerUnit: quantityFromFloat(m.RequiredQuantityPerUnit),
			WastagePercent:          decimal.NewFromFloat(m.WastagePercent).Round(2),
		})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	return recipe, nil
}

// CalculateInput asks how many units of a recipe can be produced
type CalculateInput struct {
	UserID   uuid.UUID
	RecipeID uuid.UUID
	Quantity int
}

// Calculate runs a feasibility check against current material stock and
// records it in the caller's history.
func (s *ProductionService) Calculate(ctx context.Context, input *CalculateInput) (*production.Calculation, error) {
	if input.Quantity <= 0 {
		return nil, mapDomainError(production.ErrInvalidQuantity)
	}

	recipe, err := s.GetRecipe(ctx, input.RecipeID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(recipe.Materials))
	for _, m := range recipe.Materials {
		ids = append(ids, m.MaterialID)
	}
	materials, err := s.materialRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	calc, err := production.Calculate(recipe, input.Quantity, production.NewInventory(materials))
	if err != nil {
		return nil, mapDomainError(err)
	}

	if err := s.history.Push(ctx, input.UserID, *calc); err != nil {
		log.Warn().Err(err).Str("user_id", input.UserID.String()).Msg("failed to record calculation history")
	}

	return calc, nil
}

// History returns the caller's recent calculations, newest first
func (s *ProductionService) History(ctx context.Context, userID uuid.UUID) ([]production.Calculation, error) {
	entries, err := s.history.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []production.Calculation{}
	}
	return entries, nil
}

// ClearHistory forgets the caller's calculations
func (s *ProductionService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	return s.history.Clear(ctx, userID)
}

func quantityFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(3)
}
