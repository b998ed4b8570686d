package routes

import (
	"github.com/Temamamankabeto/ora-ebook/controllers"
	"github.com/Temamamankabeto/ora-ebook/middleware"
	"github.com/Temamamankabeto/ora-ebook/models"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Ora Ebook API is running",
				})
			})

			// Public library; OptionalAuth feeds the access policy check
			library := public.Group("/library", middleware.OptionalAuth())
			{
				library.GET("", controllers.PublicLibrary)
				library.GET("/:id", controllers.GetPublicEbook)
				library.POST("/:id/access-log", controllers.LogAccess)
			}
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// User directory (editors pick reviewers from it)
			protected.GET("/users", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.ListUsers)

			// Manuscripts
			ebooks := protected.Group("/ebooks")
			{
				ebooks.POST("", middleware.RequireRole(models.RoleAuthor, models.RoleAdmin), controllers.CreateSubmission)
				ebooks.GET("/mine", middleware.RequireRole(models.RoleAuthor, models.RoleAdmin), controllers.ListMySubmissions)
				ebooks.GET("/:id", controllers.GetEbookDetail)
				ebooks.POST("/:id/files", controllers.AttachFile)
				ebooks.POST("/:id/revisions", middleware.RequireRole(models.RoleAuthor, models.RoleAdmin), controllers.SubmitRevision)

				ebooks.GET("/editor/queue", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.EditorQueue)
				ebooks.POST("/:id/status", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.SetStatus)
				ebooks.GET("/:id/reviews", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.GetEbookReviews)
			}

			// Reviewer assignments
			reviews := protected.Group("/reviews")
			{
				reviews.POST("/assign", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.AssignReviewer)
				reviews.POST("/:assignment_id/cancel", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.CancelAssignment)

				reviews.GET("/mine", middleware.RequireRole(models.RoleReviewer, models.RoleAdmin), controllers.MyReviewQueue)
				reviews.POST("/:assignment_id/accept", middleware.RequireRole(models.RoleReviewer, models.RoleAdmin), controllers.AcceptInvite)
				reviews.POST("/:assignment_id/submit", middleware.RequireRole(models.RoleReviewer, models.RoleAdmin), controllers.SubmitReview)
			}

			// Finance gate
			finance := protected.Group("/finance")
			finance.Use(middleware.RequireRole(models.RoleFinance, models.RoleAdmin))
			{
				finance.GET("/queue", controllers.FinanceQueue)
				finance.POST("/payment", controllers.SetPayment)
			}

			// Production gate
			production := protected.Group("/production")
			production.Use(middleware.RequireRole(models.RoleContentManager, models.RoleAdmin))
			{
				production.GET("/queue", controllers.ProductionQueue)
				production.POST("/start", controllers.StartProduction)
				production.POST("/publish", controllers.Publish)
			}
		}
	}
}
