package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/stockroom-api/internal/config"
	"github.com/sangkips/stockroom-api/internal/domain/enum"
	domainRepo "github.com/sangkips/stockroom-api/internal/domain/repository"
	"github.com/sangkips/stockroom-api/internal/presentation/http/handler"
	"github.com/sangkips/stockroom-api/internal/presentation/http/middleware"
	"github.com/sangkips/stockroom-api/pkg/utils"
	"gorm.io/gorm"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth       *handler.AuthHandler
	Billing    *handler.BillingHandler
	Bill       *handler.BillHandler
	Product    *handler.ProductHandler
	Customer   *handler.CustomerHandler
	Production *handler.ProductionHandler
	Dashboard  *handler.DashboardHandler
	User       *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	DB              *gorm.DB
	Redis           *redis.Client
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	if deps.DB != nil {
		router.GET("/health", handler.Health(deps.DB, deps.Redis))
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.GetProfile)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	protected.GET("/dashboard", middleware.RequirePermission(enum.PermViewDashboard), h.Dashboard.GetStats)

	registerBillingRoutes(protected, h, deps)
	registerBillRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerProductionRoutes(protected, h)
	registerUserRoutes(protected, h)
}

func registerBillingRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	sessions := rg.Group("/billing/sessions")
	sessions.Use(middleware.RequirePermission(enum.PermManageBilling))
	{
		sessions.POST("", h.Billing.CreateSession)
		sessions.GET("/:id", h.Billing.GetSession)
		sessions.DELETE("/:id", h.Billing.DeleteSession)
		sessions.POST("/:id/items", h.Billing.AddItem)
		sessions.PUT("/:id/items/:productId", h.Billing.SetQuantity)
		sessions.DELETE("/:id/items/:productId", h.Billing.RemoveItem)
		sessions.POST("/:id/reset", h.Billing.Reset)
		sessions.PATCH("/:id/adjustments", h.Billing.UpdateAdjustments)

		generate := []gin.HandlerFunc{}
		if deps.IdempotencyRepo != nil {
			generate = append(generate, middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))
		}
		generate = append(generate, h.Billing.GenerateBill)
		sessions.POST("/:id/bill", generate...)
	}
}

func registerBillRoutes(rg *gin.RouterGroup, h *Handlers) {
	bills := rg.Group("/bills")
	bills.Use(middleware.RequirePermission(enum.PermManageBilling))
	{
		bills.GET("", h.Bill.List)
		bills.GET("/:id", h.Bill.Get)
		bills.POST("/:id/cancel", h.Bill.Cancel)
	}
}

func registerProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		// cashiers need to browse stock while billing
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/categories", h.Product.Categories)
		products.GET("/:id", h.Product.Get)

		manage := products.Group("")
		manage.Use(middleware.RequirePermission(enum.PermManageProducts))
		manage.GET("/export", h.Product.Export)
		manage.POST("/import", h.Product.Import)
		manage.POST("", h.Product.Create)
		manage.PUT("/:id", h.Product.Update)
		manage.DELETE("/:id", h.Product.Delete)
		manage.POST("/:id/adjust-stock", h.Product.AdjustStock)
	}
}

func registerCustomerRoutes(rg *gin.RouterGroup, h *Handlers) {
	customers := rg.Group("/customers")
	customers.Use(middleware.RequirePermission(enum.PermManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerProductionRoutes(rg *gin.RouterGroup, h *Handlers) {
	production := rg.Group("/production")
	production.Use(middleware.RequirePermission(enum.PermManageProduction))
	{
		production.GET("/materials", h.Production.ListMaterials)
		production.POST("/materials", h.Production.CreateMaterial)
		production.GET("/materials/:id", h.Production.GetMaterial)
		production.PUT("/materials/:id", h.Production.UpdateMaterial)
		production.DELETE("/materials/:id", h.Production.DeleteMaterial)

		production.GET("/recipes", h.Production.ListRecipes)
		production.POST("/recipes", h.Production.CreateRecipe)
		production.GET("/recipes/:id", h.Production.GetRecipe)
		production.PUT("/recipes/:id", h.Production.UpdateRecipe)
		production.DELETE("/recipes/:id", h.Production.DeleteRecipe)

		production.POST("/calculate", h.Production.Calculate)
		production.GET("/history", h.Production.History)
		production.DELETE("/history", h.Production.ClearHistory)
	}
}

func registerUserRoutes(rg *gin.RouterGroup, h *Handlers) {
	users := rg.Group("/users")
	users.Use(middleware.RequirePermission(enum.PermManageUsers))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}

	rg.GET("/roles", middleware.RequirePermission(enum.PermManageUsers), h.User.ListRoles)
}
