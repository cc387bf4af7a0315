package routes

import (
	"delivery-app/config"
	"delivery-app/database"
	adminapi "delivery-app/internal/api/admin"
	authapi "delivery-app/internal/api/auth"
	"delivery-app/internal/api/deliveryapi"
	"delivery-app/internal/api/manifests"
	sessionsapi "delivery-app/internal/api/sessions"
	"delivery-app/internal/app/http/middleware"
	"delivery-app/internal/domain/delivery"
	"delivery-app/internal/domain/profiles"
	"delivery-app/internal/infra/mail"
	"delivery-app/internal/infra/store"
	"delivery-app/internal/infra/vision"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	st := store.New(database.DB)
	workflow := delivery.NewWorkflow(st, mail.NewNotifier())

	sessionsHandler := sessionsapi.NewHandler(workflow, st)
	deliveryHandler := deliveryapi.NewHandler(workflow, st)
	manifestsHandler := manifests.NewHandler(vision.NewOpenAIClient(config.OPENAI_API_KEY, config.OPENAI_MODEL))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/login", authapi.Login)
	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", authapi.Me)
	auth.POST("/change-password", authapi.ChangePassword)

	// Admin review surface: manifest intake, session creation and finalize.
	admin := auth.Group("/")
	admin.Use(middleware.RequireRole(profiles.RoleAdmin, profiles.RoleSuperAdmin))
	admin.POST("/manifests/image", manifestsHandler.ExtractFromImages)
	admin.POST("/manifests/pdf", manifestsHandler.ExtractFromPDF)
	admin.POST("/sessions", sessionsHandler.CreateSession)
	admin.GET("/sessions", sessionsHandler.ListSessions)
	admin.GET("/sessions/:id", sessionsHandler.GetSession)
	admin.POST("/sessions/:id/finalize", sessionsHandler.FinalizeSession)

	// Driver surface: anyone on the delivery run can view and complete.
	driver := auth.Group("/delivery")
	driver.Use(middleware.RequireRole(profiles.RoleDriver, profiles.RoleAdmin, profiles.RoleSuperAdmin))
	driver.GET("/sessions", deliveryHandler.ListSessions)
	driver.GET("/sessions/:id", deliveryHandler.GetSession)
	driver.POST("/sessions/:id/complete", deliveryHandler.CompleteDelivery)

	// Physical handling is restricted to whoever holds the scanner.
	scanning := auth.Group("/delivery")
	scanning.Use(middleware.RequireRole(profiles.RoleDriver, profiles.RoleSuperAdmin))
	scanning.POST("/sessions/:id/scan", deliveryHandler.MatchScans)
	scanning.POST("/sessions/:id/confirm", deliveryHandler.ConfirmSelections)
	scanning.PUT("/artworks/:id/status", deliveryHandler.UpdateArtworkStatus)

	// Super admin: staff provisioning.
	superAdmin := r.Group("/admin")
	superAdmin.Use(middleware.AuthMiddleware(), middleware.RequireRole(profiles.RoleSuperAdmin))
	superAdmin.GET("/users", adminapi.ListUsers)
	superAdmin.POST("/users", adminapi.AddUser)
	superAdmin.PUT("/users/:id/role", adminapi.UpdateUserRole)
	superAdmin.DELETE("/users/:id", adminapi.RemoveUser)
}
