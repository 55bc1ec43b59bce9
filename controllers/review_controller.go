package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/middleware"
	"github.com/shamsy-solar/shamsy-api/services"
)

// CreateReviewRequest represents the request body for reviewing a technician
type CreateReviewRequest struct {
	Rating           int    `json:"rating" binding:"required,min=1,max=5"`
	Comment          string `json:"comment" binding:"omitempty"`
	ServiceType      string `json:"service_type" binding:"required"`
	ServiceRequestID *uint  `json:"service_request_id" binding:"omitempty"`
}

// CreateReview handles POST /api/v1/technicians/:id/reviews (customers only)
// The review insert and the technician's aggregate rating update are one
// transaction inside the review service.
func CreateReview(c *gin.Context) {
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

	technicianID, err := strconv.ParseUint(c.Param("id"), 10, 64)
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

	var req CreateReviewRequest
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

	userID := user.ID
	review, err := services.CreateReview(config.GetDB(), services.CreateReviewInput{
		TechnicianID:     uint(technicianID),
		UserID:           &userID,
		ServiceRequestID: req.ServiceRequestID,
		UserName:         user.Name,
		ServiceType:      req.ServiceType,
		Rating:           req.Rating,
		Comment:          req.Comment,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    review,
	})
}

// ListTechnicianReviews handles GET /api/v1/technicians/:id/reviews (public)
func ListTechnicianReviews(c *gin.Context) {
	technicianID, err := strconv.ParseUint(c.Param("id"), 10, 64)
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

	reviews, err := services.ListTechnicianReviews(config.GetDB(), uint(technicianID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reviews,
	})
}
