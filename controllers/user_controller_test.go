package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/models"
	"github.com/shamsy-solar/shamsy-api/utils"
)

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	user := seedUser(t, db, "profileuser", models.RoleUser, "password123")

	router := setupTestRouter()
	router.GET("/users/me", mockAuthMiddleware(user), GetMyProfile)

	w := performJSON(router, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "profileuser", data["username"])
	assert.Equal(t, "profileuser@example.com", data["email"])
	assert.NotContains(t, data, "password")
}

func TestGetMyProfile_NoAuthContext(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/users/me", GetMyProfile)

	w := performJSON(router, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}

func TestUpdateMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	user := seedUser(t, db, "updateuser", models.RoleUser, "password123")

	router := setupTestRouter()
	router.PUT("/users/me", mockAuthMiddleware(user), UpdateMyProfile)

	t.Run("Partial update leaves other fields untouched", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/users/me", UpdateUserRequest{
			City: "Abha",
		})
		assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

		response := decodeResponse(t, w)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Abha", data["city"])
		assert.Equal(t, "updateuser@example.com", data["email"])
	})

	t.Run("Empty update returns current profile", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/users/me", UpdateUserRequest{})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid email rejected", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/users/me", UpdateUserRequest{
			Email: "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})
}

func TestUpdateMyProfile_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	user := seedUser(t, db, "emailuser", models.RoleUser, "password123")
	seedUser(t, db, "otheruser", models.RoleUser, "password123")

	router := setupTestRouter()
	router.PUT("/users/me", mockAuthMiddleware(user), UpdateMyProfile)

	w := performJSON(router, http.MethodPut, "/users/me", UpdateUserRequest{
		Email: "otheruser@example.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, w))
}

func TestChangeMyPassword(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	user := seedUser(t, db, "pwuser", models.RoleUser, "old-password-1")

	router := setupTestRouter()
	router.PUT("/users/me/password", mockAuthMiddleware(user), ChangeMyPassword)

	t.Run("Wrong current password", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/users/me/password", ChangePasswordRequest{
			CurrentPassword: "not-the-password",
			NewPassword:     "new-password-1",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "WRONG_PASSWORD", errorCode(t, w))
	})

	t.Run("Successful rotation", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/users/me/password", ChangePasswordRequest{
			CurrentPassword: "old-password-1",
			NewPassword:     "new-password-1",
		})
		assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

		var stored models.User
		assert.NoError(t, db.First(&stored, user.ID).Error)
		assert.True(t, utils.CheckPassword(stored.Password, "new-password-1"))
		assert.False(t, utils.CheckPassword(stored.Password, "old-password-1"))
	})

	t.Run("New password too short", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/users/me/password", ChangePasswordRequest{
			CurrentPassword: "new-password-1",
			NewPassword:     "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})
}
