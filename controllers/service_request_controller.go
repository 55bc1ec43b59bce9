package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/middleware"
	"github.com/shamsy-solar/shamsy-api/models"
	"github.com/shamsy-solar/shamsy-api/services"
)

// CreateServiceRequestRequest represents the request body for opening a service request
type CreateServiceRequestRequest struct {
	ServiceType   string     `json:"service_type" binding:"required"`
	PropertyType  string     `json:"property_type" binding:"required"`
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description" binding:"required"`
	Address       string     `json:"address" binding:"required"`
	City          string     `json:"city" binding:"required"`
	Latitude      string     `json:"latitude" binding:"omitempty"`
	Longitude     string     `json:"longitude" binding:"omitempty"`
	TechnicianID  *uint      `json:"technician_id" binding:"omitempty"`
	Price         *int       `json:"price" binding:"omitempty,gt=0"`
	ScheduledDate *time.Time `json:"scheduled_date" binding:"omitempty"`
}

// AssignTechnicianRequest represents the request body for assigning a technician
type AssignTechnicianRequest struct {
	TechnicianID uint `json:"technician_id" binding:"required"`
}

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetPriceRequest represents the request body for quoting a price
type SetPriceRequest struct {
	Price int `json:"price" binding:"required,gt=0"`
}

// ConfirmPaymentRequest represents the request body for confirming a payment
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"omitempty"`
}

// CreateServiceRequest handles POST /api/v1/service-requests (customers only)
func CreateServiceRequest(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
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

	var req CreateServiceRequestRequest
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

	request, err := services.CreateServiceRequest(config.GetDB(), services.CreateServiceRequestInput{
		UserID:        userID,
		ServiceType:   req.ServiceType,
		PropertyType:  req.PropertyType,
		Title:         req.Title,
		Description:   req.Description,
		Address:       req.Address,
		City:          req.City,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		TechnicianID:  req.TechnicianID,
		Price:         req.Price,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Load the owner relationship to return complete data
	db := config.GetDB()
	if err := db.Preload("User").First(request, request.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load service request details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    request,
	})
}

// ListServiceRequests handles GET /api/v1/service-requests
// Customers see their own requests, technicians the ones assigned to them,
// admins everything.
func ListServiceRequests(c *gin.Context) {
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

	db := config.GetDB()
	query := db.Preload("User").Preload("Technician")

	switch user.Role {
	case models.RoleAdmin:
		// no filter
	case models.RoleTechnician:
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
		query = query.Where("technician_id = ?", technician.ID)
	default:
		query = query.Where("user_id = ?", user.ID)
	}

	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid status filter",
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	var requests []models.ServiceRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list service requests",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    requests,
	})
}

// GetServiceRequest handles GET /api/v1/service-requests/:id
func GetServiceRequest(c *gin.Context) {
	_, request, ok := loadRequestForCaller(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// AssignTechnician handles PATCH /api/v1/service-requests/:id/assign (admins only)
func AssignTechnician(c *gin.Context) {
	requestID, ok := requestIDParam(c)
	if !ok {
		return
	}

	var req AssignTechnicianRequest
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

	request, err := services.AssignTechnician(config.GetDB(), requestID, req.TechnicianID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    request,
	})
}

// UpdateServiceRequestStatus handles PATCH /api/v1/service-requests/:id/status
// Allowed for admins and for the technician assigned to the request.
func UpdateServiceRequestStatus(c *gin.Context) {
	_, request, ok := loadRequestForStatusChange(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
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

	updated, err := services.UpdateRequestStatus(config.GetDB(), request.ID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// SetServiceRequestPrice handles PATCH /api/v1/service-requests/:id/price
// Allowed for admins and for the technician assigned to the request.
func SetServiceRequestPrice(c *gin.Context) {
	_, request, ok := loadRequestForStatusChange(c)
	if !ok {
		return
	}

	var req SetPriceRequest
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

	updated, err := services.SetRequestPrice(config.GetDB(), request.ID, req.Price)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// CreatePaymentIntent handles POST /api/v1/service-requests/:id/payment-intent
// Only the owning customer can start a payment.
func CreatePaymentIntent(c *gin.Context) {
	user, request, ok := loadRequestForCaller(c)
	if !ok {
		return
	}

	if user.Role != models.RoleAdmin && request.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the request owner can pay for it",
			},
		})
		return
	}

	gateway := services.GetPaymentGateway()
	if gateway == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_UNAVAILABLE",
				"message": "Payment gateway is not configured",
			},
		})
		return
	}

	updated, clientSecret, err := services.CreateRequestPaymentIntent(config.GetDB(), gateway, request.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"service_request": updated,
			"client_secret":   clientSecret,
		},
	})
}

// ConfirmPayment handles POST /api/v1/service-requests/:id/confirm-payment
// Marks the request paid after the customer completes the gateway flow.
// Idempotent.
func ConfirmPayment(c *gin.Context) {
	user, request, ok := loadRequestForCaller(c)
	if !ok {
		return
	}

	if user.Role != models.RoleAdmin && request.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the request owner can confirm payment",
			},
		})
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
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

	updated, err := services.MarkRequestPaid(config.GetDB(), request.ID, req.PaymentIntentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// requestIDParam parses the :id URL parameter
func requestIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Service request ID must be a number",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// loadRequestForCaller fetches the request and enforces read access: the
// owner, the assigned technician, or an admin.
func loadRequestForCaller(c *gin.Context) (*models.User, *models.ServiceRequest, bool) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, nil, false
	}

	requestID, ok := requestIDParam(c)
	if !ok {
		return nil, nil, false
	}

	db := config.GetDB()
	var request models.ServiceRequest
	if err := db.Preload("User").Preload("Technician").First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Service request not found",
			},
		})
		return nil, nil, false
	}

	if user.Role != models.RoleAdmin && request.UserID != user.ID && !isAssignedTechnician(db, user, &request) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have access to this service request",
			},
		})
		return nil, nil, false
	}

	return user, &request, true
}

// loadRequestForStatusChange fetches the request and enforces write access on
// the lifecycle: an admin or the assigned technician.
func loadRequestForStatusChange(c *gin.Context) (*models.User, *models.ServiceRequest, bool) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, nil, false
	}

	requestID, ok := requestIDParam(c)
	if !ok {
		return nil, nil, false
	}

	db := config.GetDB()
	var request models.ServiceRequest
	if err := db.First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Service request not found",
			},
		})
		return nil, nil, false
	}

	if user.Role != models.RoleAdmin && !isAssignedTechnician(db, user, &request) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only an admin or the assigned technician can do this",
			},
		})
		return nil, nil, false
	}

	return user, &request, true
}

// isAssignedTechnician reports whether user owns the technician profile
// assigned to the request
func isAssignedTechnician(db *gorm.DB, user *models.User, request *models.ServiceRequest) bool {
	if user.Role != models.RoleTechnician || request.TechnicianID == nil {
		return false
	}

	var technician models.Technician
	if err := db.Where("user_id = ?", user.ID).First(&technician).Error; err != nil {
		return false
	}

	return technician.ID == *request.TechnicianID
}
