package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shamsy-solar/shamsy-api/models"
)

// CreateReviewInput carries the fields accepted when reviewing a technician
type CreateReviewInput struct {
	TechnicianID     uint
	UserID           *uint
	ServiceRequestID *uint
	UserName         string
	ServiceType      string
	Rating           int
	Comment          string
}

// CreateReview is the single entry point for writing a review. The review
// insert and the technician's rating/review_count update happen in one
// transaction; neither ever exists without the other.
//
// The aggregate is a plain running mean: with the first review the rating is
// exactly the submitted value, afterwards
// (rating*count + r) / (count+1).
func CreateReview(db *gorm.DB, input CreateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, NewValidationError("rating must be between 1 and 5")
	}
	if input.UserName == "" {
		return nil, NewValidationError("user name is required")
	}
	if !models.IsValidServiceType(input.ServiceType) {
		return nil, NewValidationError("invalid service type: %q", input.ServiceType)
	}

	review := models.Review{
		TechnicianID:     input.TechnicianID,
		UserID:           input.UserID,
		ServiceRequestID: input.ServiceRequestID,
		UserName:         input.UserName,
		ServiceType:      input.ServiceType,
		Rating:           input.Rating,
		Comment:          input.Comment,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var technician models.Technician
		if err := tx.First(&technician, input.TechnicianID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("technician %d not found", input.TechnicianID)
			}
			return err
		}

		newRating := NextRating(technician.Rating, technician.ReviewCount, input.Rating)
		updates := map[string]interface{}{
			"rating":       newRating,
			"review_count": technician.ReviewCount + 1,
		}
		if err := tx.Model(&technician).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Create(&review).Error
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// NextRating computes the running mean after one more rating r. A nil current
// rating (no reviews yet) yields exactly r, avoiding division artifacts.
func NextRating(current *float64, reviewCount int, r int) float64 {
	if current == nil || reviewCount == 0 {
		return float64(r)
	}
	return (*current*float64(reviewCount) + float64(r)) / float64(reviewCount+1)
}

// ListTechnicianReviews returns the reviews for a technician, newest first.
func ListTechnicianReviews(db *gorm.DB, technicianID uint) ([]models.Review, error) {
	var technician models.Technician
	if err := db.First(&technician, technicianID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("technician %d not found", technicianID)
		}
		return nil, err
	}

	var reviews []models.Review
	if err := db.Where("technician_id = ?", technicianID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}

	return reviews, nil
}
