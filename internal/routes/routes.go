package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/easyrh/backend/internal/config"
	"github.com/easyrh/backend/internal/controllers"
	"github.com/easyrh/backend/internal/middleware"
	"github.com/easyrh/backend/internal/services"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	reportService := services.NewReportService(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	saisonController := controllers.NewSaisonController(db)
	feedbackController := controllers.NewFeedbackController(db)
	rapportController := controllers.NewRapportController(db, reportService)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authController.Login)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/me", authController.GetCurrentUser)
				users.PUT("/me/password", authController.ChangePassword)
				users.GET("/collaborators", userController.GetCollaborators)
				users.GET("", userController.GetUsers)
				users.POST("", userController.CreateUser)
				users.PUT("/:id", userController.UpdateUser)
				users.DELETE("/:id", userController.DeleteUser)
			}

			saisons := protected.Group("/saisons")
			{
				saisons.GET("", saisonController.GetSaisons)
				saisons.GET("/active", saisonController.GetActiveSaisons)
				saisons.POST("", saisonController.CreateSaison)
				saisons.PUT("/:id", saisonController.UpdateSaison)
				saisons.DELETE("/:id", saisonController.DeleteSaison)
			}

			feedbacks := protected.Group("/feedbacks")
			{
				feedbacks.GET("", feedbackController.GetFeedbacks)
				feedbacks.POST("", feedbackController.CreateFeedback)
				feedbacks.PUT("/:id", feedbackController.UpdateFeedback)
				feedbacks.DELETE("/:id", feedbackController.DeleteFeedback)
			}

			rapports := protected.Group("/rapports")
			{
				rapports.GET("", rapportController.GetRapport)
				rapports.POST("", rapportController.CreateRapport)
				rapports.POST("/generate", rapportController.GenerateRapport)
				rapports.PUT("/:id", rapportController.UpdateRapport)
				rapports.DELETE("/:id", rapportController.DeleteRapport)
				rapports.GET("/:id/export", rapportController.ExportRapport)
			}
		}
	}
}
