package routes

import (
	"citizen-portal-api/controllers"
	"citizen-portal-api/middleware"
	"citizen-portal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Service catalog
			public.GET("/services", controllers.GetServices)
			public.GET("/services/:service", controllers.GetService)

			// City directory
			public.GET("/officials", controllers.GetOfficials)
			public.GET("/departments", controllers.GetDepartments)
			public.GET("/emergency-contacts", controllers.GetEmergencyContacts)

			// Ordinances
			public.GET("/ordinances", controllers.GetOrdinances)
			public.GET("/ordinances/:id", controllers.GetOrdinance)

			// Complaints: anyone may file; logged-in users get linked
			public.GET("/complaints/categories", controllers.GetComplaintCategories)
			public.POST("/complaints", middleware.OptionalAuth(), controllers.SubmitComplaint)
			public.GET("/complaints/track/:code", controllers.TrackComplaint)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Citizen Portal API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth management
			protected.POST("/logout", controllers.Logout)

			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/profile", controllers.UpdateProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Service applications
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplications)
				applications.GET("/:service", controllers.GetApplicationForService)
				applications.POST("/:service/start", controllers.StartApplication)
				applications.POST("/:service/:id/update", controllers.UpdateApplicationProgress)
				applications.POST("/:service/:id/upload", controllers.UploadApplicationDocument)
			}

			// Complaints filed under this account
			protected.GET("/complaints/mine", controllers.GetMyComplaints)

			// Assistant
			protected.POST("/chat", controllers.Chat)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				// Application review queue
				admin.GET("/applications", controllers.AdminGetApplications)
				admin.GET("/applications/:id", controllers.AdminGetApplication)
				admin.POST("/applications/status", controllers.AdminResolveApplication)
				admin.POST("/applications/:id/resolve", controllers.AdminResolveApplication)

				// Service catalog management
				admin.POST("/services", controllers.AdminCreateService)
				admin.PUT("/services/:service", controllers.AdminUpdateService)
				admin.DELETE("/services/:service", controllers.AdminDeleteService)

				// Complaint triage
				admin.GET("/complaints", controllers.AdminGetComplaints)
				admin.PUT("/complaints/:id/status", controllers.AdminUpdateComplaintStatus)

				// Directory management
				admin.POST("/officials", controllers.AdminCreateOfficial)
				admin.PUT("/officials/:id", controllers.AdminUpdateOfficial)
				admin.DELETE("/officials/:id", controllers.AdminDeleteOfficial)
				admin.POST("/emergency-contacts", controllers.AdminCreateEmergencyContact)
				admin.DELETE("/emergency-contacts/:id", controllers.AdminDeleteEmergencyContact)

				// Ordinance management
				admin.POST("/ordinances", controllers.AdminCreateOrdinance)
				admin.PUT("/ordinances/:id", controllers.AdminUpdateOrdinance)
				admin.DELETE("/ordinances/:id", controllers.AdminDeleteOrdinance)
			}
		}
	}
}
