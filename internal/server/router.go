package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/designmill-backend/internal/handlers"
	"github.com/yungbote/designmill-backend/internal/middleware"
)

type RouterConfig struct {
	RunHandler        *handlers.RunHandler
	VariableHandler   *handlers.VariableHandler
	PolicyHandler     *handlers.PolicyHandler
	RequestMiddleware *middleware.RequestMiddleware
	AssetsDir         string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	if cfg.RequestMiddleware != nil {
		router.Use(cfg.RequestMiddleware.Track())
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	// Generated artifacts and prompt payloads.
	router.Static("/assets", cfg.AssetsDir)

	api := router.Group("/api")
	{
		// Runs
		api.POST("/runs", cfg.RunHandler.TriggerRun)
		api.GET("/runs", cfg.RunHandler.ListRuns)
		api.GET("/runs/:id", cfg.RunHandler.GetRun)

		// Variable lists and items
		api.GET("/variable-lists", cfg.VariableHandler.ListLists)
		api.POST("/variable-lists", cfg.VariableHandler.CreateList)
		api.GET("/variable-lists/:name/items", cfg.VariableHandler.ListItems)
		api.POST("/variable-lists/:name/items", cfg.VariableHandler.CreateItem)
		api.PATCH("/variable-items/:id", cfg.VariableHandler.UpdateItem)
		api.DELETE("/variable-items/:id", cfg.VariableHandler.DeleteItem)
		api.GET("/variable-defaults", cfg.VariableHandler.ListDefaults)
		api.PUT("/variable-defaults", cfg.VariableHandler.UpsertDefault)

		// Policy
		api.GET("/policy", cfg.PolicyHandler.GetPolicy)
		api.PATCH("/policy", cfg.PolicyHandler.UpdatePolicy)
	}

	return router
}
