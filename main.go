package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/controllers"
	"github.com/shamsy-solar/shamsy-api/middleware"
	"github.com/shamsy-solar/shamsy-api/models"
	"github.com/shamsy-solar/shamsy-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Shamsy Solar API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Technician{},
		&models.ServiceRequest{},
		&models.Review{},
		&models.Contact{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize the payment gateway
	services.InitPaymentGateway(cfg)

	// Initialize S3-backed profile image storage
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Printf("warning: S3 service unavailable, profile images disabled: %v", err)
	} else {
		services.InitImageService(s3Service)
	}

	// Build the router and start the server
	router := buildRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildRouter assembles the full API surface
func buildRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	auth := middleware.RequireAuth(cfg)

	v1 := router.Group("/api/v1")
	{
		// Operational endpoints
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Authentication
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		// Current user
		v1.GET("/users/me", auth, controllers.GetMyProfile)
		v1.PUT("/users/me", auth, controllers.UpdateMyProfile)
		v1.PUT("/users/me/password", auth, controllers.ChangeMyPassword)
		v1.POST("/users/me/profile-image", auth, controllers.UploadProfileImage)

		// Technicians
		v1.GET("/technicians", controllers.ListTechnicians)
		v1.GET("/technicians/:id", controllers.GetTechnician)
		v1.POST("/technicians", auth, middleware.RequireRoles(models.RoleTechnician), controllers.CreateTechnician)
		v1.PUT("/technicians/me", auth, middleware.RequireRoles(models.RoleTechnician), controllers.UpdateMyTechnicianProfile)
		v1.PATCH("/technicians/me/availability", auth, middleware.RequireRoles(models.RoleTechnician), controllers.SetMyAvailability)

		// Reviews
		v1.GET("/technicians/:id/reviews", controllers.ListTechnicianReviews)
		v1.POST("/technicians/:id/reviews", auth, middleware.RequireRoles(models.RoleUser), controllers.CreateReview)

		// Service requests
		v1.POST("/service-requests", auth, middleware.RequireRoles(models.RoleUser), controllers.CreateServiceRequest)
		v1.GET("/service-requests", auth, controllers.ListServiceRequests)
		v1.GET("/service-requests/:id", auth, controllers.GetServiceRequest)
		v1.PATCH("/service-requests/:id/assign", auth, middleware.RequireRoles(models.RoleAdmin), controllers.AssignTechnician)
		v1.PATCH("/service-requests/:id/status", auth, controllers.UpdateServiceRequestStatus)
		v1.PATCH("/service-requests/:id/price", auth, controllers.SetServiceRequestPrice)
		v1.POST("/service-requests/:id/payment-intent", auth, controllers.CreatePaymentIntent)
		v1.POST("/service-requests/:id/confirm-payment", auth, controllers.ConfirmPayment)

		// Contact form
		v1.POST("/contact", controllers.CreateContact)
		v1.GET("/contact", auth, middleware.RequireRoles(models.RoleAdmin), controllers.ListContacts)
		v1.PATCH("/contact/:id/respond", auth, middleware.RequireRoles(models.RoleAdmin), controllers.RespondToContact)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Shamsy Solar API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
