package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shamsy-solar/shamsy-api/models"
)

// CreateServiceRequestInput carries the fields accepted when opening a request
type CreateServiceRequestInput struct {
	UserID        uint
	ServiceType   string
	PropertyType  string
	Title         string
	Description   string
	Address       string
	City          string
	Latitude      string
	Longitude     string
	TechnicianID  *uint
	Price         *int
	ScheduledDate *time.Time
}

// CreateServiceRequest opens a new service request in the pending state.
// Technician and price are optional; supplying a technician starts the
// request at assigned instead of pending.
func CreateServiceRequest(db *gorm.DB, input CreateServiceRequestInput) (*models.ServiceRequest, error) {
	if input.Title == "" || input.Description == "" || input.Address == "" || input.City == "" {
		return nil, NewValidationError("title, description, address and city are required")
	}
	if !models.IsValidServiceType(input.ServiceType) {
		return nil, NewValidationError("invalid service type: %q", input.ServiceType)
	}
	if !models.IsValidPropertyType(input.PropertyType) {
		return nil, NewValidationError("invalid property type: %q", input.PropertyType)
	}

	request := models.ServiceRequest{
		UserID:        input.UserID,
		ServiceType:   input.ServiceType,
		PropertyType:  input.PropertyType,
		Title:         input.Title,
		Description:   input.Description,
		Address:       input.Address,
		City:          input.City,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Price:         input.Price,
		ScheduledDate: input.ScheduledDate,
		Status:        models.StatusPending,
		IsPaid:        false,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if input.TechnicianID != nil {
			var technician models.Technician
			if err := tx.First(&technician, *input.TechnicianID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NewNotFoundError("technician %d not found", *input.TechnicianID)
				}
				return err
			}
			request.TechnicianID = input.TechnicianID
			// a request created with a technician is already assigned
			request.Status = models.StatusAssigned
		}

		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// AssignTechnician sets the technician on a non-terminal request. A pending
// request advances to assigned; any later status is left untouched, so
// re-assigning while in_progress does not regress the lifecycle.
func AssignTechnician(db *gorm.DB, requestID, technicianID uint) (*models.ServiceRequest, error) {
	var request models.ServiceRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service request %d not found", requestID)
			}
			return err
		}

		if models.IsTerminalStatus(request.Status) {
			return NewConflictError("cannot assign a technician to a %s request", request.Status)
		}

		var technician models.Technician
		if err := tx.First(&technician, technicianID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("technician %d not found", technicianID)
			}
			return err
		}

		request.TechnicianID = &technicianID
		if request.Status == models.StatusPending {
			request.Status = models.StatusAssigned
		}

		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// UpdateRequestStatus sets the request status to any of the six lifecycle
// values. The transition graph is deliberately not enforced; only the status
// value itself is validated.
func UpdateRequestStatus(db *gorm.DB, requestID uint, newStatus string) (*models.ServiceRequest, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, NewValidationError("invalid status: %q", newStatus)
	}

	var request models.ServiceRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service request %d not found", requestID)
			}
			return err
		}

		request.Status = newStatus
		if newStatus == models.StatusCompleted && request.CompletedDate == nil {
			now := time.Now()
			request.CompletedDate = &now
		}

		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// SetRequestPrice quotes a price on a request. The price cannot change once
// the request has been paid.
func SetRequestPrice(db *gorm.DB, requestID uint, price int) (*models.ServiceRequest, error) {
	if price <= 0 {
		return nil, NewValidationError("price must be positive")
	}

	var request models.ServiceRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service request %d not found", requestID)
			}
			return err
		}

		if request.IsPaid {
			return NewConflictError("cannot change the price of a paid request")
		}

		request.Price = &price
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// MarkRequestPaid records a successful payment: is_paid becomes true and the
// status moves to paid. Idempotent; a second call only refreshes the stored
// payment intent ID when a non-empty one is provided.
func MarkRequestPaid(db *gorm.DB, requestID uint, paymentIntentID string) (*models.ServiceRequest, error) {
	var request models.ServiceRequest

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service request %d not found", requestID)
			}
			return err
		}

		request.IsPaid = true
		request.Status = models.StatusPaid
		if paymentIntentID != "" {
			request.PaymentIntentID = &paymentIntentID
		}

		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// CreateRequestPaymentIntent returns a client secret the customer can use to
// pay for the request. An existing non-canceled intent on record is reused;
// otherwise a new one is created through the gateway and its ID persisted.
func CreateRequestPaymentIntent(db *gorm.DB, gateway PaymentGateway, requestID uint) (*models.ServiceRequest, string, error) {
	var request models.ServiceRequest
	var clientSecret string

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("service request %d not found", requestID)
			}
			return err
		}

		if request.IsPaid {
			return NewConflictError("service request %d is already paid", requestID)
		}
		if request.Price == nil {
			return NewValidationError("service request %d has no price set", requestID)
		}

		if request.PaymentIntentID != nil {
			existing, err := gateway.RetrievePaymentIntent(*request.PaymentIntentID)
			if err != nil {
				return err
			}
			if existing.Status != "canceled" {
				clientSecret = existing.ClientSecret
				return nil
			}
		}

		// SAR uses 2 decimal minor units (halalas)
		amount := int64(*request.Price) * 100
		intent, err := gateway.CreatePaymentIntent(amount, "sar", map[string]string{
			"service_request_id": fmt.Sprintf("%d", request.ID),
		})
		if err != nil {
			return err
		}

		request.PaymentIntentID = &intent.ID
		clientSecret = intent.ClientSecret

		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, "", err
	}

	return &request, clientSecret, nil
}
