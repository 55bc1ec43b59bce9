package models

import (
	"time"

	"gorm.io/gorm"
)

// Technician represents a service-provider profile owned 1:1 by a User
type Technician struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"uniqueIndex;not null" json:"user_id"` // 1:1 owner reference
	User              User           `gorm:"foreignKey:UserID" json:"user"`
	Specialty         string         `gorm:"not null" json:"specialty"`
	Experience        string         `json:"experience"`
	Certifications    string         `json:"certifications"`
	Bio               string         `gorm:"type:text" json:"bio"`
	Available         bool           `json:"available"`
	Rating            *float64       `json:"rating"`                          // nullable, running average of review ratings
	ReviewCount       int            `gorm:"not null;default:0" json:"review_count"`
	Latitude          string         `json:"latitude"`  // decimal string
	Longitude         string         `json:"longitude"` // decimal string
	ServiceRadius     int            `gorm:"default:50" json:"service_radius"` // km
	InstallationPrice int            `json:"installation_price"`               // SAR
	MaintenancePrice  int            `json:"maintenance_price"`                // SAR
	AssessmentPrice   int            `json:"assessment_price"`                 // SAR
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Technician model
func (Technician) TableName() string {
	return "technicians"
}
