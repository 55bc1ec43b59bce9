package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser       = "user"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// User represents an account in the system (customer, technician or admin)
type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Username          string         `gorm:"uniqueIndex;not null" json:"username"`
	Password          string         `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role              string         `gorm:"not null;default:'user'" json:"role"` // "user", "technician" or "admin"
	Name              string         `gorm:"not null" json:"name"`
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone             string         `gorm:"not null" json:"phone"`
	City              string         `gorm:"not null" json:"city"`
	Address           *string        `json:"address"`
	ProfileImageS3Key *string        `json:"profile_image_s3_key"`                 // nullable, S3 key for uploaded photo
	ProfileImageURL   *string        `gorm:"-" json:"profile_image_url,omitempty"` // computed field, presigned URL
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsValidRole reports whether role is one of the closed set of user roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}
