package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/middleware"
	"github.com/shamsy-solar/shamsy-api/models"
)

// CreateTechnicianRequest represents the request body for creating a technician profile
type CreateTechnicianRequest struct {
	Specialty         string `json:"specialty" binding:"required"`
	Experience        string `json:"experience" binding:"omitempty"`
	Certifications    string `json:"certifications" binding:"omitempty"`
	Bio               string `json:"bio" binding:"omitempty"`
	Latitude          string `json:"latitude" binding:"omitempty"`
	Longitude         string `json:"longitude" binding:"omitempty"`
	ServiceRadius     int    `json:"service_radius" binding:"omitempty,gt=0"`
	InstallationPrice int    `json:"installation_price" binding:"omitempty,gte=0"`
	MaintenancePrice  int    `json:"maintenance_price" binding:"omitempty,gte=0"`
	AssessmentPrice   int    `json:"assessment_price" binding:"omitempty,gte=0"`
}

// UpdateTechnicianRequest represents the request body for updating a technician profile
type UpdateTechnicianRequest struct {
	Specialty         *string `json:"specialty"`
	Experience        *string `json:"experience"`
	Certifications    *string `json:"certifications"`
	Bio               *string `json:"bio"`
	Latitude          *string `json:"latitude"`
	Longitude         *string `json:"longitude"`
	ServiceRadius     *int    `json:"service_radius"`
	InstallationPrice *int    `json:"installation_price"`
	MaintenancePrice  *int    `json:"maintenance_price"`
	AssessmentPrice   *int    `json:"assessment_price"`
}

// SetAvailabilityRequest represents the request body for toggling availability
type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

// ListTechnicians handles GET /api/v1/technicians - lists technician profiles
// Supports ?city=, ?available=true and ?service= filters
func ListTechnicians(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Technician{}).Preload("User")

	if city := c.Query("city"); city != "" {
		query = query.Joins("JOIN users ON users.id = technicians.user_id").
			Where("users.city = ?", city)
	}
	if c.Query("available") == "true" {
		query = query.Where("technicians.available = ?", true)
	}

	// Unrated profiles (rating NULL, review_count 0) sort last on both
	// PostgreSQL and SQLite with this ordering
	var technicians []models.Technician
	if err := query.Order("technicians.review_count DESC, technicians.rating DESC").Find(&technicians).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list technicians",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    technicians,
	})
}

// GetTechnician handles GET /api/v1/technicians/:id - fetches one technician profile
func GetTechnician(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Technician ID must be a number",
			},
		})
		return
	}

	db := config.GetDB()
	var technician models.Technician
	if err := db.Preload("User").First(&technician, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Technician not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    technician,
	})
}

// CreateTechnician handles POST /api/v1/technicians - creates the caller's
// technician profile (technician role only, one profile per user)
func CreateTechnician(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	technician := models.Technician{
		UserID:            user.ID,
		Specialty:         req.Specialty,
		Experience:        req.Experience,
		Certifications:    req.Certifications,
		Bio:               req.Bio,
		Available:         true,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		InstallationPrice: req.InstallationPrice,
		MaintenancePrice:  req.MaintenancePrice,
		AssessmentPrice:   req.AssessmentPrice,
	}
	if req.ServiceRadius > 0 {
		technician.ServiceRadius = req.ServiceRadius
	}

	db := config.GetDB()
	if err := db.Create(&technician).Error; err != nil {
		if isDuplicateError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PROFILE_EXISTS",
					"message": "A technician profile already exists for this user",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create technician profile",
			},
		})
		return
	}

	// Load the owner relationship to return complete data
	if err := db.Preload("User").First(&technician, technician.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load technician details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    technician,
	})
}

// UpdateMyTechnicianProfile handles PUT /api/v1/technicians/me - updates the
// caller's own technician profile
func UpdateMyTechnicianProfile(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var technician models.Technician
	if err := db.Where("user_id = ?", user.ID).First(&technician).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Technician profile not found. Please create a profile first.",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Specialty != nil {
		updates["specialty"] = *req.Specialty
	}
	if req.Experience != nil {
		updates["experience"] = *req.Experience
	}
	if req.Certifications != nil {
		updates["certifications"] = *req.Certifications
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.ServiceRadius != nil {
		updates["service_radius"] = *req.ServiceRadius
	}
	if req.InstallationPrice != nil {
		updates["installation_price"] = *req.InstallationPrice
	}
	if req.MaintenancePrice != nil {
		updates["maintenance_price"] = *req.MaintenancePrice
	}
	if req.AssessmentPrice != nil {
		updates["assessment_price"] = *req.AssessmentPrice
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    technician,
		})
		return
	}

	// Rating and review_count are never writable here; only the review
	// service may touch them
	if err := db.Model(&technician).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update technician profile",
			},
		})
		return
	}

	if err := db.Preload("User").First(&technician, technician.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load technician details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    technician,
	})
}

// SetMyAvailability handles PATCH /api/v1/technicians/me/availability
func SetMyAvailability(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var technician models.Technician
	if err := db.Where("user_id = ?", user.ID).First(&technician).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Technician profile not found. Please create a profile first.",
			},
		})
		return
	}

	if err := db.Model(&technician).Update("available", *req.Available).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update availability",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    technician,
	})
}
