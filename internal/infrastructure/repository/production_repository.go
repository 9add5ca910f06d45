package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/pkg/pagination"
	"gorm.io/gorm"
)

type rawMaterialRepository struct {
	db *gorm.DB
}

// NewRawMaterialRepository creates a new raw material repository
func NewRawMaterialRepository(db *gorm.DB) domainRepo.RawMaterialRepository {
	return &rawMaterialRepository{db: db}
}

func (r *rawMaterialRepository) Create(ctx context.Context, material *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *rawMaterialRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RawMaterial, error) {
	var material entity.RawMaterial
	err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &material, err
}

func (r *rawMaterialRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.RawMaterial, error) {
	if len(ids) == 0 {
		return []entity.RawMaterial{}, nil
	}
	var materials []entity.RawMaterial
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&materials).Error
	return materials, err
}

func (r *rawMaterialRepository) GetByName(ctx context.Context, name string) (*entity.RawMaterial, error) {
	var material entity.RawMaterial
	err := r.db.WithContext(ctx).First(&material, "LOWER(name) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &material, err
}

func (r *rawMaterialRepository) Update(ctx context.Context, material *entity.RawMaterial) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *rawMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.RawMaterial{}, "id = ?", id).Error
}

func (r *rawMaterialRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.RawMaterial, int64, error) {
	var materials []entity.RawMaterial
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RawMaterial{}).
		Scopes(Search(search, "name"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Order("name ASC").
		Find(&materials).Error

	return materials, total, err
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) domainRepo.RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.WithContext(ctx).
		Preload("Materials").
		First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &recipe, err
}

func (r *recipeRepository) GetByName(ctx context.Context, name string) (*entity.Recipe, error) {
	var recipe entity.Recipe
	err := r.db.WithContext(ctx).
		Preload("Materials").
		First(&recipe, "LOWER(name) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &recipe, err
}

func (r *recipeRepository) Update(ctx context.Context, recipe *entity.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entity.RecipeMaterial{}).Error; err != nil {
			return err
		}
		for i := range recipe.Materials {
			recipe.Materials[i].RecipeID = recipe.ID
			recipe.Materials[i].ID = uuid.Nil
		}
		if len(recipe.Materials) > 0 {
			if err := tx.Create(&recipe.Materials).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Materials").Save(recipe).Error
	})
}

func (r *recipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entity.RecipeMaterial{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Recipe{}, "id = ?", id).Error
	})
}

func (r *recipeRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Recipe, int64, error) {
	var recipes []entity.Recipe
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Recipe{}).
		Scopes(Search(search, "name"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Preload("Materials").
		Order("name ASC").
		Find(&recipes).Error

	return recipes, total, err
}
