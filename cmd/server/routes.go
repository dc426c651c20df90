package main

import (
	"github.com/gin-gonic/gin"
	"github.com/njeri-dev/tafsiri/internal/handlers"
	"github.com/njeri-dev/tafsiri/internal/middleware"
	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for bulk moderation routes
	bulkLimiter := middleware.NewRateLimiter(2, 5)

	// Health check
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes (any authenticated user)
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(models.GetDB())
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)

			// Categories
			categoryHandler := handlers.NewCategoryHandler(models.GetDB())
			protected.GET("/categories", categoryHandler.List)

			// Contributions
			contributionHandler := handlers.NewContributionHandler(models.GetDB())
			protected.GET("/contributions", contributionHandler.List)
			protected.GET("/contributions/:id", contributionHandler.GetByID)
			protected.POST("/contributions", contributionHandler.Create)
			protected.PUT("/contributions/:id", contributionHandler.Update)
			protected.DELETE("/contributions/:id", contributionHandler.Delete)

			// Quality analysis (read)
			qaHandler := handlers.NewQAHandler(svc.analyzer, svc.moderation)
			protected.GET("/qa/analyze/:id", qaHandler.Analyze)

			// Content rating (read + personal filters)
			ratingHandler := handlers.NewContentRatingHandler(svc.ratingService)
			protected.POST("/content-rating/analyze", ratingHandler.AnalyzeText)
			protected.GET("/content-rating/filters", ratingHandler.GetFilter)
			protected.POST("/content-rating/filters", ratingHandler.SetFilter)
			protected.GET("/content-rating/contributions/filtered", ratingHandler.FilteredContributions)
		}

		// Moderator-or-admin routes
		moderator := api.Group("")
		moderator.Use(middleware.AuthRequired(), middleware.ModeratorRequired(), middleware.AuditLog())
		{
			qaHandler := handlers.NewQAHandler(svc.analyzer, svc.moderation)
			moderator.POST("/qa/batch-analyze", qaHandler.BatchAnalyze)
			moderator.GET("/qa/moderation-queue", qaHandler.ModerationQueue)
			moderator.POST("/qa/auto-fix", qaHandler.AutoFix)
			moderator.POST("/qa/approve/:id", qaHandler.Approve)
			moderator.POST("/qa/reject/:id", qaHandler.Reject)
			moderator.POST("/qa/bulk-approve", bulkLimiter.Middleware(), qaHandler.BulkApprove)
			moderator.POST("/qa/bulk-reject", bulkLimiter.Middleware(), qaHandler.BulkReject)

			ratingHandler := handlers.NewContentRatingHandler(svc.ratingService)
			moderator.POST("/content-rating/rate", ratingHandler.Rate)
			moderator.POST("/content-rating/auto-rate/:id", ratingHandler.AutoRate)
			moderator.POST("/content-rating/bulk-auto-rate", bulkLimiter.Middleware(), ratingHandler.BulkAutoRate)
			moderator.GET("/content-rating/statistics", ratingHandler.Statistics)

			auditLogHandler := handlers.NewAuditLogHandler(models.GetDB())
			moderator.GET("/audit-logs", auditLogHandler.List)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			systemLogHandler := handlers.NewSystemLogHandler(models.GetDB())
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", systemLogHandler.GetRetention)
			admin.PUT("/system-logs/retention", systemLogHandler.SetRetention)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
