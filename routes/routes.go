package routes

import (
	"github.com/gin-gonic/gin"

	"risk-management-api/controllers"
	"risk-management-api/middleware"
	"risk-management-api/models"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Risk Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Lookups (all authenticated users)
			protected.GET("/departments", controllers.GetDepartments)
			protected.GET("/risk-categories", controllers.GetRiskCategories)
			protected.GET("/risk-sources", controllers.GetRiskSources)

			// Risk register
			risks := protected.Group("/risks")
			{
				risks.GET("", controllers.GetRisks)
				risks.GET("/:id", controllers.GetRisk)
				risks.POST("", controllers.CreateRisk)
				risks.PUT("/:id", controllers.UpdateRisk)
				risks.DELETE("/:id", controllers.DeleteRisk)

				risks.POST("/:id/submit", controllers.SubmitRisk)
				risks.POST("/:id/residual", controllers.AssessResidual)
				risks.GET("/:id/changelog", controllers.GetRiskChangeLog)
				risks.GET("/:id/discussions", controllers.GetRiskDiscussions)
				risks.POST("/:id/discussions", controllers.CreateRiskDiscussion)

				risks.GET("/:id/treatment-plans", controllers.GetTreatmentPlans)
				risks.POST("/:id/treatment-plans", controllers.CreateTreatmentPlan)
			}

			// Approvals (reviewers and admins)
			approvals := protected.Group("/approvals")
			approvals.Use(middleware.RequireRole(models.RoleReviewer, models.RoleAdmin))
			{
				approvals.GET("", controllers.GetApprovalRequests)
				approvals.GET("/:id", controllers.GetApprovalRequest)
				approvals.POST("/:id/decision", controllers.DecideApprovalRequest)
			}

			// Treatment plans and tasks
			plans := protected.Group("/treatment-plans")
			{
				plans.GET("/:id", controllers.GetTreatmentPlan)
				plans.PUT("/:id", controllers.UpdateTreatmentPlan)
				plans.PUT("/:id/status", controllers.UpdateTreatmentPlanStatus)
				plans.GET("/:id/tasks", controllers.GetTreatmentTasks)
				plans.POST("/:id/tasks", controllers.CreateTreatmentTask)
				plans.GET("/:id/discussions", controllers.GetPlanDiscussions)
				plans.POST("/:id/discussions", controllers.CreatePlanDiscussion)
			}

			tasks := protected.Group("/tasks")
			{
				tasks.PUT("/:id/status", controllers.UpdateTreatmentTaskStatus)
				tasks.GET("/:id/steps", controllers.GetTaskSteps)
				tasks.POST("/:id/steps", controllers.CreateTaskStep)
				tasks.POST("/:id/attachment", controllers.UploadTaskAttachment)
			}

			steps := protected.Group("/steps")
			{
				steps.PUT("/:id/status", controllers.UpdateTaskStepStatus)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}

			// Admin panel
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/users", controllers.AdminGetUsers)
				admin.POST("/users", controllers.AdminCreateUser)
				admin.PUT("/users/:id", controllers.AdminUpdateUser)
				admin.DELETE("/users/:id", controllers.AdminDeleteUser)

				admin.POST("/departments", controllers.AdminCreateDepartment)
				admin.POST("/risk-categories", controllers.AdminCreateRiskCategory)
				admin.PUT("/risk-categories/:id", controllers.AdminUpdateRiskCategory)
				admin.POST("/risk-sources", controllers.AdminCreateRiskSource)

				admin.GET("/config", controllers.GetSystemConfig)
				admin.PUT("/config", controllers.SetSystemConfig)

				admin.POST("/import/risks", controllers.AdminImportRisks)
				admin.GET("/export/risks.csv", controllers.AdminExportRisks)

				admin.GET("/backup", controllers.AdminBackup)
				admin.POST("/restore", controllers.AdminRestore)
			}
		}
	}
}
