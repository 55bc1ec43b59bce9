package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact represents a message submitted through the public contact form
type Contact struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Email       string         `gorm:"not null" json:"email"`
	Subject     string         `gorm:"not null" json:"subject"`
	Message     string         `gorm:"type:text;not null" json:"message"`
	Responded   bool           `gorm:"not null;default:false" json:"responded"` // toggles false -> true only
	Response    *string        `json:"response"`
	RespondedAt *time.Time     `json:"responded_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Contact model
func (Contact) TableName() string {
	return "contacts"
}
