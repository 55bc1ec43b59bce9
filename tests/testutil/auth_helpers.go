package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/shamsy-solar/shamsy-api/models"
	"github.com/shamsy-solar/shamsy-api/utils"
)

// TestJWTSecret is the signing secret used by integration and acceptance tests
const TestJWTSecret = "integration-test-secret"

// CreateUser seeds a user with the given role and returns it together with a
// valid session token signed with TestJWTSecret.
func CreateUser(t *testing.T, db *gorm.DB, username, role string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username: username,
		Password: hash,
		Role:     role,
		Name:     "Test " + username,
		Email:    username + "@example.com",
		Phone:    "0550000000",
		City:     "Riyadh",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %q: %v", username, err)
	}

	token, err := utils.GenerateToken(TestJWTSecret, user.ID, user.Role, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token for %q: %v", username, err)
	}

	return &user, token
}

// CreateTechnician seeds a technician user plus profile and returns the
// profile and a session token for the owning user.
func CreateTechnician(t *testing.T, db *gorm.DB, username string) (*models.Technician, string) {
	t.Helper()

	user, token := CreateUser(t, db, username, models.RoleTechnician)

	technician := models.Technician{
		UserID:            user.ID,
		Specialty:         "rooftop installation",
		Experience:        "5 years",
		Available:         true,
		InstallationPrice: 6000,
	}
	if err := db.Create(&technician).Error; err != nil {
		t.Fatalf("Failed to create technician profile for %q: %v", username, err)
	}

	return &technician, token
}
