package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	"github.com/sangkips/stockroom-api/pkg/pagination"
)

// RawMaterialRepository defines the interface for raw material data operations
type RawMaterialRepository interface {
	Create(ctx context.Context, material *entity.RawMaterial) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RawMaterial, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.RawMaterial, error)
	GetByName(ctx context.Context, name string) (*entity.RawMaterial, error)
	Update(ctx context.Context, material *entity.RawMaterial) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.RawMaterial, int64, error)
}

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	// Create inserts the recipe together with its materials
	Create(ctx context.Context, recipe *entity.Recipe) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Recipe, error)
	GetByName(ctx context.Context, name string) (*entity.Recipe, error)
	// Update replaces the recipe row and its full material list
	Update(ctx context.Context, recipe *entity.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Recipe, int64, error)
}
