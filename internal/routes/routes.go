package routes

import (
	"github.com/gin-gonic/gin"

	"crmhub/internal/handlers"
	"crmhub/internal/middleware"
	"crmhub/internal/models"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	leadHandler *handlers.LeadHandler,
	reportHandler *handlers.ReportHandler,
	outboxHandler *handlers.OutboxHandler, // nil when a real SMTP sender is configured
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	r.POST("/logout", authHandler.Logout)

	// USERS (Admin)
	users := r.Group("/users", middleware.RequireRoles(models.RoleAdmin))
	{
		users.POST("/", userHandler.ProvisionUser)
		users.GET("/", userHandler.ListUsers)
		users.GET("/count", userHandler.GetUserCount)
		users.GET("/count/role/:role", userHandler.GetUserCountByRole)
		users.GET("/:id", userHandler.GetUserByID)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeactivateUser)
	}

	// TASKS (all roles; per-task authorization happens in the service)
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.List)
		tasks.GET("/assignable-users", taskHandler.AssignableUsers)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/status", taskHandler.UpdateStatus)
		tasks.POST("/:id/assign", taskHandler.UpdateAssignee)
		tasks.POST("/:id/comments", taskHandler.AddComment)
		tasks.GET("/:id/comments", taskHandler.ListComments)
	}

	// LEADS (partners have no lead access)
	leads := r.Group("/leads", middleware.RequireRoles(models.RoleAdmin, models.RoleEditor, models.RoleViewer))
	{
		leads.POST("/", leadHandler.Create)
		leads.GET("/", leadHandler.List)
		leads.GET("/:id", leadHandler.GetByID)
		leads.PUT("/:id", leadHandler.Update)
		leads.DELETE("/:id", leadHandler.Delete)
	}

	// REPORTS
	reports := r.Group("/reports", middleware.RequireRoles(models.RoleAdmin, models.RoleEditor))
	{
		reports.GET("/summary", reportHandler.Summary)
		reports.GET("/summary.pdf", reportHandler.SummaryPDF)
		reports.GET("/tasks", reportHandler.TaskAnalytics)
	}

	// OUTBOX (dev only)
	if outboxHandler != nil {
		outbox := r.Group("/outbox", middleware.RequireRoles(models.RoleAdmin))
		{
			outbox.GET("/", outboxHandler.List)
			outbox.DELETE("/", outboxHandler.Clear)
		}
	}

	return r
}
