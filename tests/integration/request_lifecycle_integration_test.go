package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shamsy-solar/shamsy-api/config"
	"github.com/shamsy-solar/shamsy-api/controllers"
	"github.com/shamsy-solar/shamsy-api/middleware"
	"github.com/shamsy-solar/shamsy-api/models"
	"github.com/shamsy-solar/shamsy-api/services"
	"github.com/shamsy-solar/shamsy-api/tests/testutil"
)

// RequestLifecycleTestSuite drives a service request through its whole
// lifecycle over HTTP: create, assign, progress, complete, quote, pay,
// review.
type RequestLifecycleTestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	gateway *services.MockPaymentGateway

	customerToken   string
	technicianToken string
	adminToken      string
	technician      *models.Technician
}

func (suite *RequestLifecycleTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	config.SetConfig(&config.Config{
		JWTSecret: testutil.TestJWTSecret,
		GoEnv:     "test",
	})
}

func (suite *RequestLifecycleTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Technician{},
		&models.ServiceRequest{},
		&models.Review{},
		&models.Contact{},
	))
	suite.db = db
	config.SetDB(db)

	suite.gateway = services.NewMockPaymentGateway()
	suite.gateway.SetAsMockForTesting()

	_, suite.customerToken = testutil.CreateUser(suite.T(), db, "lifecycle-customer", models.RoleUser)
	suite.technician, suite.technicianToken = testutil.CreateTechnician(suite.T(), db, "lifecycle-tech")
	_, suite.adminToken = testutil.CreateUser(suite.T(), db, "lifecycle-admin", models.RoleAdmin)

	cfg := config.GetConfig()
	auth := middleware.RequireAuth(cfg)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
		v1.POST("/service-requests", auth, middleware.RequireRoles(models.RoleUser), controllers.CreateServiceRequest)
		v1.GET("/service-requests", auth, controllers.ListServiceRequests)
		v1.GET("/service-requests/:id", auth, controllers.GetServiceRequest)
		v1.PATCH("/service-requests/:id/assign", auth, middleware.RequireRoles(models.RoleAdmin), controllers.AssignTechnician)
		v1.PATCH("/service-requests/:id/status", auth, controllers.UpdateServiceRequestStatus)
		v1.PATCH("/service-requests/:id/price", auth, controllers.SetServiceRequestPrice)
		v1.POST("/service-requests/:id/payment-intent", auth, controllers.CreatePaymentIntent)
		v1.POST("/service-requests/:id/confirm-payment", auth, controllers.ConfirmPayment)
		v1.POST("/technicians/:id/reviews", auth, middleware.RequireRoles(models.RoleUser), controllers.CreateReview)
		v1.GET("/technicians/:id/reviews", controllers.ListTechnicianReviews)
	}
}

func (suite *RequestLifecycleTestSuite) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RequestLifecycleTestSuite) data(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().True(response["success"].(bool), "Response body: %s", w.Body.String())
	return response["data"].(map[string]interface{})
}

// TestFullLifecycle walks the happy path end to end.
func (suite *RequestLifecycleTestSuite) TestFullLifecycle() {
	// Customer opens a request
	w := suite.do(http.MethodPost, "/api/v1/service-requests", suite.customerToken, map[string]interface{}{
		"service_type":  "installation",
		"property_type": "residential",
		"title":         "Villa rooftop system",
		"description":   "12 panels plus inverter",
		"address":       "Al Malqa district",
		"city":          "Riyadh",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, "Response body: %s", w.Body.String())
	created := suite.data(w)
	suite.Equal("pending", created["status"])
	requestID := int(created["id"].(float64))

	// Admin assigns the technician
	w = suite.do(http.MethodPatch, fmt.Sprintf("/api/v1/service-requests/%d/assign", requestID), suite.adminToken, map[string]interface{}{
		"technician_id": suite.technician.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	suite.Equal("assigned", suite.data(w)["status"])

	// The assigned technician works the job
	statusPath := fmt.Sprintf("/api/v1/service-requests/%d/status", requestID)
	w = suite.do(http.MethodPatch, statusPath, suite.technicianToken, map[string]string{"status": "in_progress"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPatch, statusPath, suite.technicianToken, map[string]string{"status": "completed"})
	suite.Require().Equal(http.StatusOK, w.Code)
	completed := suite.data(w)
	suite.NotNil(completed["completed_date"])

	// The technician quotes the price
	w = suite.do(http.MethodPatch, fmt.Sprintf("/api/v1/service-requests/%d/price", requestID), suite.technicianToken, map[string]int{"price": 6400})
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	// The customer starts and confirms payment
	w = suite.do(http.MethodPost, fmt.Sprintf("/api/v1/service-requests/%d/payment-intent", requestID), suite.customerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	payment := suite.data(w)
	suite.NotEmpty(payment["client_secret"])

	w = suite.do(http.MethodPost, fmt.Sprintf("/api/v1/service-requests/%d/confirm-payment", requestID), suite.customerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	paid := suite.data(w)
	suite.Equal("paid", paid["status"])
	suite.Equal(true, paid["is_paid"])

	// The amount charged matches the quote in halalas
	intentID := paid["payment_intent_id"].(string)
	intent, err := suite.gateway.RetrievePaymentIntent(intentID)
	suite.Require().NoError(err)
	suite.Equal(int64(640000), intent.Amount)
	suite.Equal("sar", intent.Currency)

	// The customer reviews the technician
	w = suite.do(http.MethodPost, fmt.Sprintf("/api/v1/technicians/%d/reviews", suite.technician.ID), suite.customerToken, map[string]interface{}{
		"rating":             5,
		"comment":            "Spotless work",
		"service_type":       "installation",
		"service_request_id": requestID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	var updatedTech models.Technician
	suite.Require().NoError(suite.db.First(&updatedTech, suite.technician.ID).Error)
	suite.Equal(5.0, *updatedTech.Rating)
	suite.Equal(1, updatedTech.ReviewCount)
}

// TestRoleVisibility verifies each role sees the right slice of requests.
func (suite *RequestLifecycleTestSuite) TestRoleVisibility() {
	w := suite.do(http.MethodPost, "/api/v1/service-requests", suite.customerToken, map[string]interface{}{
		"service_type":  "maintenance",
		"property_type": "commercial",
		"title":         "Quarterly checkup",
		"description":   "Inverter and wiring inspection",
		"address":       "Industrial city",
		"city":          "Jubail",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	requestID := int(suite.data(w)["id"].(float64))

	list := func(token string) []interface{} {
		w := suite.do(http.MethodGet, "/api/v1/service-requests", token, nil)
		suite.Require().Equal(http.StatusOK, w.Code, "Response body: %s", w.Body.String())
		var response map[string]interface{}
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
		return response["data"].([]interface{})
	}

	suite.Len(list(suite.customerToken), 1)
	suite.Len(list(suite.adminToken), 1)
	suite.Empty(list(suite.technicianToken), "nothing assigned to the technician yet")

	w = suite.do(http.MethodPatch, fmt.Sprintf("/api/v1/service-requests/%d/assign", requestID), suite.adminToken, map[string]interface{}{
		"technician_id": suite.technician.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	suite.Len(list(suite.technicianToken), 1)
}

// TestCustomerCannotAssign verifies the role gate on assignment.
func (suite *RequestLifecycleTestSuite) TestCustomerCannotAssign() {
	w := suite.do(http.MethodPost, "/api/v1/service-requests", suite.customerToken, map[string]interface{}{
		"service_type":  "assessment",
		"property_type": "residential",
		"title":         "Feasibility study",
		"description":   "Roof orientation check",
		"address":       "Hittin",
		"city":          "Riyadh",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	requestID := int(suite.data(w)["id"].(float64))

	w = suite.do(http.MethodPatch, fmt.Sprintf("/api/v1/service-requests/%d/assign", requestID), suite.customerToken, map[string]interface{}{
		"technician_id": suite.technician.ID,
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

// TestTechnicianCannotCreateRequest verifies the role gate on creation.
func (suite *RequestLifecycleTestSuite) TestTechnicianCannotCreateRequest() {
	w := suite.do(http.MethodPost, "/api/v1/service-requests", suite.technicianToken, map[string]interface{}{
		"service_type":  "installation",
		"property_type": "residential",
		"title":         "Self-created job",
		"description":   "d",
		"address":       "a",
		"city":          "c",
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func TestRequestLifecycleTestSuite(t *testing.T) {
	testutil.RequireTestEnvironment(t)
	suite.Run(t, new(RequestLifecycleTestSuite))
}
