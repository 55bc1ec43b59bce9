package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shamsy-solar/shamsy-api/config"
)

// PaymentIntent represents the gateway's handle for an in-progress charge
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// PaymentGateway defines the operations this core needs from the payment provider
type PaymentGateway interface {
	// CreatePaymentIntent creates a new payment intent for the given amount
	// in minor units (halalas for SAR)
	CreatePaymentIntent(amountMinorUnits int64, currency string, metadata map[string]string) (*PaymentIntent, error)

	// RetrievePaymentIntent fetches an existing payment intent by ID
	RetrievePaymentIntent(id string) (*PaymentIntent, error)
}

// StripeService implements PaymentGateway against Stripe's REST API
type StripeService struct {
	apiBase    string
	secretKey  string
	httpClient *http.Client
}

var paymentGatewayInstance PaymentGateway

// InitPaymentGateway initializes the Stripe-backed payment gateway
func InitPaymentGateway(cfg *config.Config) PaymentGateway {
	paymentGatewayInstance = NewStripeService(cfg)
	return paymentGatewayInstance
}

// GetPaymentGateway returns the initialized payment gateway instance
func GetPaymentGateway() PaymentGateway {
	return paymentGatewayInstance
}

// SetPaymentGateway sets the payment gateway instance (primarily for testing)
func SetPaymentGateway(gateway PaymentGateway) {
	paymentGatewayInstance = gateway
}

// NewStripeService creates a new Stripe service instance
func NewStripeService(cfg *config.Config) *StripeService {
	return &StripeService{
		apiBase:   cfg.StripeAPIBase,
		secretKey: cfg.StripeSecretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreatePaymentIntent creates a payment intent through Stripe's
// /v1/payment_intents endpoint
func (s *StripeService) CreatePaymentIntent(amountMinorUnits int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinorUnits, 10))
	form.Set("currency", currency)
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiBase+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &UpstreamError{Message: "failed to create payment intent request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// Stripe dedupes retried creations by idempotency key
	req.Header.Set("Idempotency-Key", uuid.NewString())

	return s.do(req)
}

// RetrievePaymentIntent fetches a payment intent by ID
func (s *StripeService) RetrievePaymentIntent(id string) (*PaymentIntent, error) {
	req, err := http.NewRequest(http.MethodGet, s.apiBase+"/v1/payment_intents/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, &UpstreamError{Message: "failed to create payment intent request", Err: err}
	}

	return s.do(req)
}

// do executes an authenticated request against the gateway and decodes the intent
func (s *StripeService) do(req *http.Request) (*PaymentIntent, error) {
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: "payment gateway unreachable", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{
			Message: fmt.Sprintf("payment gateway returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, &UpstreamError{Message: "failed to decode payment gateway response", Err: err}
	}

	return &intent, nil
}
