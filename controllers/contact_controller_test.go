package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/models"
)

func TestCreateContact(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/contact", CreateContact)

	t.Run("Anonymous submission accepted", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/contact", CreateContactRequest{
			Name:    "Visitor",
			Email:   "visitor@example.com",
			Subject: "Pricing question",
			Message: "How much does a 10kW system cost?",
		})
		assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

		response := decodeResponse(t, w)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, false, data["responded"])
		assert.Nil(t, data["response"])
	})

	t.Run("Missing message rejected", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/contact", CreateContactRequest{
			Name:  "Visitor",
			Email: "visitor@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})
}

func TestListContacts(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	db.Create(&models.Contact{Name: "A", Email: "a@example.com", Subject: "s1", Message: "m1"})
	answered := models.Contact{Name: "B", Email: "b@example.com", Subject: "s2", Message: "m2", Responded: true}
	db.Create(&answered)

	admin := seedUser(t, db, "contact-admin", models.RoleAdmin, "password123")

	router := setupTestRouter()
	router.GET("/contact", mockAuthMiddleware(admin), ListContacts)

	w := performJSON(router, http.MethodGet, "/contact", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"].([]interface{}), 2)

	w = performJSON(router, http.MethodGet, "/contact?responded=false", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "A", data[0].(map[string]interface{})["name"])
}

func TestRespondToContact(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	contact := models.Contact{Name: "C", Email: "c@example.com", Subject: "s", Message: "m"}
	db.Create(&contact)

	admin := seedUser(t, db, "respond-admin", models.RoleAdmin, "password123")

	router := setupTestRouter()
	router.PATCH("/contact/:id/respond", mockAuthMiddleware(admin), RespondToContact)

	path := fmt.Sprintf("/contact/%d/respond", contact.ID)

	w := performJSON(router, http.MethodPatch, path, RespondContactRequest{
		Response: "Thanks, we will call you back.",
	})
	assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	var stored models.Contact
	assert.NoError(t, db.First(&stored, contact.ID).Error)
	assert.True(t, stored.Responded)
	assert.Equal(t, "Thanks, we will call you back.", *stored.Response)
	assert.NotNil(t, stored.RespondedAt)

	// Responded only moves false -> true once
	w = performJSON(router, http.MethodPatch, path, RespondContactRequest{
		Response: "Second answer",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, w))

	w = performJSON(router, http.MethodPatch, "/contact/999/respond", RespondContactRequest{
		Response: "r",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}
