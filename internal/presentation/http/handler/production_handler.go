package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockroom-api/internal/application/service"
	"github.com/sangkips/stockroom-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stockroom-api/internal/presentation/http/dto/response"
)

// ProductionHandler serves raw materials, recipes and the feasibility calculator
type ProductionHandler struct {
	productionService *service.ProductionService
}

// NewProductionHandler creates a new production handler
func NewProductionHandler(productionService *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// ListMaterials handles listing raw materials
func (h *ProductionHandler) ListMaterials(c *gin.Context) {
	result, err := h.productionService.ListMaterials(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Materials retrieved successfully", result)
}

func materialInput(req *request.MaterialRequest) *service.MaterialInput {
	return &service.MaterialInput{
		Name:         req.Name,
		Unit:         req.Unit,
		CurrentStock: req.CurrentStock,
		CostPerUnit:  req.CostPerUnit,
	}
}

// CreateMaterial handles creating a raw material
func (h *ProductionHandler) CreateMaterial(c *gin.Context) {
	var req request.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	material, err := h.productionService.CreateMaterial(c.Request.Context(), materialInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Material created successfully", material)
}

// GetMaterial handles getting a raw material
func (h *ProductionHandler) GetMaterial(c *gin.Context) {
	id, ok := paramUUID(c, "id", "material")
	if !ok {
		return
	}

	material, err := h.productionService.GetMaterial(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Material retrieved successfully", material)
}

// UpdateMaterial handles replacing a raw material
func (h *ProductionHandler) UpdateMaterial(c *gin.Context) {
	id, ok := paramUUID(c, "id", "material")
	if !ok {
		return
	}

	var req request.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	material, err := h.productionService.UpdateMaterial(c.Request.Context(), id, materialInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Material updated successfully", material)
}

// DeleteMaterial handles deleting a raw material
func (h *ProductionHandler) DeleteMaterial(c *gin.Context) {
	id, ok := paramUUID(c, "id", "material")
	if !ok {
		return
	}

	if err := h.productionService.DeleteMaterial(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListRecipes handles listing recipes
func (h *ProductionHandler) ListRecipes(c *gin.Context) {
	result, err := h.productionService.ListRecipes(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Recipes retrieved successfully", result)
}

func recipeInput(req *request.RecipeRequest) *service.RecipeInput {
	materials := make([]service.RecipeMaterialInput, len(req.Materials))
	for i, m := range req.Materials {
		materials[i] = service.RecipeMaterialInput{
			MaterialID:              m.MaterialID,
			RequiredQuantityPerUnit: m.RequiredQuantityPerUnit,
			WastagePercent:          m.WastagePercent,
		}
	}
	return &service.RecipeInput{
		Name:               req.Name,
		Complexity:         req.Complexity,
		EstimatedTimeHours: req.EstimatedTimeHours,
		Materials:          materials,
	}
}

// CreateRecipe handles creating a recipe
func (h *ProductionHandler) CreateRecipe(c *gin.Context) {
	var req request.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	recipe, err := h.productionService.CreateRecipe(c.Request.Context(), recipeInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Recipe created successfully", recipe)
}

// GetRecipe handles getting a recipe with its materials
func (h *ProductionHandler) GetRecipe(c *gin.Context) {
	id, ok := paramUUID(c, "id", "recipe")
	if !ok {
		return
	}

	recipe, err := h.productionService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recipe retrieved successfully", recipe)
}

// UpdateRecipe handles replacing a recipe
func (h *ProductionHandler) UpdateRecipe(c *gin.Context) {
	id, ok := paramUUID(c, "id", "recipe")
	if !ok {
		return
	}

	var req request.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	recipe, err := h.productionService.UpdateRecipe(c.Request.Context(), id, recipeInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recipe updated successfully", recipe)
}

// DeleteRecipe handles deleting a recipe
func (h *ProductionHandler) DeleteRecipe(c *gin.Context) {
	id, ok := paramUUID(c, "id", "recipe")
	if !ok {
		return
	}

	if err := h.productionService.DeleteRecipe(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Calculate runs the feasibility calculator for the caller
func (h *ProductionHandler) Calculate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	calc, err := h.productionService.Calculate(c.Request.Context(), &service.CalculateInput{
		UserID:   userID,
		RecipeID: req.RecipeID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Production calculated", calc)
}

// History returns the caller's most recent calculations, newest first
func (h *ProductionHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	history, err := h.productionService.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Calculation history retrieved", history)
}

// ClearHistory empties the caller's calculation history
func (h *ProductionHandler) ClearHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.productionService.ClearHistory(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
