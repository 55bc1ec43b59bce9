package models

import (
	"time"
)

// Review represents a customer review of a technician. Reviews are immutable
// once created and are only written through the review service, which updates
// the owning technician's aggregate rating in the same transaction.
type Review struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	TechnicianID     uint       `gorm:"not null;index" json:"technician_id"`
	UserID           *uint      `gorm:"index" json:"user_id"`
	ServiceRequestID *uint      `gorm:"index" json:"service_request_id"`
	UserName         string     `gorm:"not null" json:"user_name"`
	ServiceType      string     `gorm:"not null" json:"service_type"`
	Rating           int        `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment          string     `gorm:"type:text" json:"comment"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
