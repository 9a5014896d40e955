package api

import (
	"time"

	"menu-planner/internal/api/handlers/health"
	menuHandler "menu-planner/internal/api/handlers/menu"
	recipeHandler "menu-planner/internal/api/handlers/recipe"
	"menu-planner/internal/api/middleware"
	"menu-planner/internal/core/menu"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the router exposes.
type Deps struct {
	Planner     menuHandler.Planner
	Recipes     recipeHandler.Service
	Store       health.Pinger
	QueueStatus func() menu.Status
	CacheStats  func() map[string]interface{}
}

// SetupRouter builds the gin engine.
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	healthHandler := health.NewHandler(cfg.App.Version, deps.Store, deps.QueueStatus, deps.CacheStats)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	menus := menuHandler.NewHandler(deps.Planner, cfg.Menu.Window, cfg.App.Debug)
	menuGroup := api.Group("/menu")
	{
		menuGroup.GET("", menus.HandleGetMenu)
		menuGroup.POST("/:date/regenerate", menus.HandleRegenerateDay)
	}

	recipes := recipeHandler.NewHandler(deps.Recipes, cfg.App.Debug)
	recipeGroup := api.Group("/recipes")
	{
		recipeGroup.GET("", recipes.HandleListRecipes)
		recipeGroup.GET("/:id", recipes.HandleGetRecipe)
		recipeGroup.POST("", middleware.Deduplication(cfg.Server.DedupWindow), recipes.HandleSaveRecipe)
		recipeGroup.PUT("/:id", recipes.HandleSaveRecipe)
		recipeGroup.DELETE("/:id", recipes.HandleDeleteRecipe)
		recipeGroup.POST("/:id/nutrition", recipes.HandleRecomputeNutrition)
		recipeGroup.POST("/nutrition", recipes.HandleRecomputeAll)
	}

	foodGroup := api.Group("/food-items")
	{
		foodGroup.GET("", recipes.HandleListFoodItems)
		foodGroup.GET("/count", recipes.HandleCountFoodItems)
		foodGroup.POST("", middleware.Deduplication(cfg.Server.DedupWindow), recipes.HandleSaveFoodItem)
		foodGroup.GET("/:id", recipes.HandleGetFoodItem)
		foodGroup.DELETE("/:id", recipes.HandleDeleteFoodItem)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
