package router

import (
	"github.com/gin-gonic/gin"

	"visaprep/internal/handler"
	"visaprep/internal/middleware"
	"visaprep/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	fileH *handler.FileHandler,
	docH *handler.DocumentHandler,
	agentH *handler.AgentConfigHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id", fileH.GetByID)
	files.DELETE("/:id", fileH.Delete)

	// Document routes
	docs := protected.Group("/documents")
	docs.POST("", docH.Create)
	docs.GET("", docH.List)
	docs.GET("/categories", docH.Categories)
	docs.GET("/:id", docH.GetByID)
	docs.GET("/:id/result", docH.GetResult)
	docs.GET("/:id/export/csv", docH.ExportCSV)
	docs.GET("/:id/export/xlsx", docH.ExportXLSX)
	docs.POST("/:id/retry", docH.Retry)
	docs.DELETE("/:id", docH.Delete)

	// Extraction settings
	agentCfg := protected.Group("/agent")
	agentCfg.GET("/config", agentH.Get)
	agentCfg.PATCH("/config", agentH.Update)

	return r
}
