package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/middleware"
	"github.com/shamsy-solar/shamsy-api/services"
	"github.com/shamsy-solar/shamsy-api/utils"
)

// UploadProfileImage handles POST /api/v1/users/me/profile-image - uploads a
// profile photo, replacing any previous one
func UploadProfileImage(c *gin.Context) {
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

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required in the 'image' field",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		// Validation failures carry their own code
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to upload image",
			},
		})
		return
	}

	// Copy the old key before the update rewrites it on the struct
	var previousKey string
	if user.ProfileImageS3Key != nil {
		previousKey = *user.ProfileImageS3Key
	}

	db := config.GetDB()
	if err := db.Model(user).Update("profile_image_s3_key", imageKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save profile image",
			},
		})
		return
	}

	// Best effort cleanup of the replaced photo
	if previousKey != "" && previousKey != imageKey {
		if err := imageService.DeleteImage(previousKey); err != nil {
			log.Printf("warning: failed to delete old profile image %s: %v", previousKey, err)
		}
	}

	url, err := imageService.GetImageURL(imageKey)
	if err != nil {
		log.Printf("warning: failed to generate profile image URL: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"profile_image_s3_key": imageKey,
			"profile_image_url":    url,
		},
	})
}
