package models

import (
	"time"

	"gorm.io/gorm"
)

// Service request statuses
const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusPaid       = "paid"
)

// Service types
const (
	ServiceInstallation = "installation"
	ServiceMaintenance  = "maintenance"
	ServiceAssessment   = "assessment"
	ServiceConsultation = "consultation"
)

// Property types
const (
	PropertyResidential = "residential"
	PropertyCommercial  = "commercial"
	PropertyIndustrial  = "industrial"
	PropertyGovernment  = "government"
)

// ServiceRequest represents a customer's request for a solar service job,
// tracked through a status lifecycle to payment
type ServiceRequest struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"` // owning customer
	User            User           `gorm:"foreignKey:UserID" json:"user"`
	TechnicianID    *uint          `gorm:"index" json:"technician_id"` // nullable until assigned
	Technician      *Technician    `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	ServiceType     string         `gorm:"not null" json:"service_type"`  // installation, maintenance, assessment, consultation
	PropertyType    string         `gorm:"not null" json:"property_type"` // residential, commercial, industrial, government
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	Address         string         `gorm:"not null" json:"address"`
	City            string         `gorm:"not null" json:"city"`
	Latitude        string         `json:"latitude"`
	Longitude       string         `json:"longitude"`
	Status          string         `gorm:"not null;default:'pending'" json:"status"` // pending, assigned, in_progress, completed, cancelled, paid
	ScheduledDate   *time.Time     `json:"scheduled_date"`
	CompletedDate   *time.Time     `json:"completed_date"`
	Price           *int           `json:"price"` // SAR, nullable until quoted
	IsPaid          bool           `gorm:"not null;default:false" json:"is_paid"`
	PaymentIntentID *string        `json:"payment_intent_id"` // external gateway reference
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ServiceRequest model
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// IsValidStatus reports whether status is one of the six lifecycle values.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled, StatusPaid:
		return true
	}
	return false
}

// IsTerminalStatus reports whether status is terminal. Paid and cancelled
// requests accept no further lifecycle operations.
func IsTerminalStatus(status string) bool {
	return status == StatusPaid || status == StatusCancelled
}

// IsValidServiceType reports whether serviceType is one of the closed set.
func IsValidServiceType(serviceType string) bool {
	switch serviceType {
	case ServiceInstallation, ServiceMaintenance, ServiceAssessment, ServiceConsultation:
		return true
	}
	return false
}

// IsValidPropertyType reports whether propertyType is one of the closed set.
func IsValidPropertyType(propertyType string) bool {
	switch propertyType {
	case PropertyResidential, PropertyCommercial, PropertyIndustrial, PropertyGovernment:
		return true
	}
	return false
}
