package services

import (
	"fmt"
	"sync"
)

// MockPaymentGateway is an in-memory PaymentGateway implementation for testing
type MockPaymentGateway struct {
	intents    map[string]*PaymentIntent
	nextID     int
	FailCreate bool // when set, CreatePaymentIntent returns an UpstreamError
	mu         sync.Mutex
}

// NewMockPaymentGateway creates a new mock payment gateway
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		intents: make(map[string]*PaymentIntent),
	}
}

// SetAsMockForTesting sets this mock as the global payment gateway instance
func (m *MockPaymentGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

// CreatePaymentIntent simulates creating a payment intent
func (m *MockPaymentGateway) CreatePaymentIntent(amountMinorUnits int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreate {
		return nil, &UpstreamError{Message: "mock gateway failure"}
	}

	m.nextID++
	intent := &PaymentIntent{
		ID:           fmt.Sprintf("pi_mock_%d", m.nextID),
		ClientSecret: fmt.Sprintf("pi_mock_%d_secret", m.nextID),
		Status:       "requires_payment_method",
		Amount:       amountMinorUnits,
		Currency:     currency,
	}
	m.intents[intent.ID] = intent

	return intent, nil
}

// RetrievePaymentIntent simulates fetching a payment intent by ID
func (m *MockPaymentGateway) RetrievePaymentIntent(id string) (*PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	intent, exists := m.intents[id]
	if !exists {
		return nil, &UpstreamError{Message: fmt.Sprintf("no such payment intent: %s", id)}
	}

	copied := *intent
	return &copied, nil
}

// CancelIntent marks a stored intent as canceled (test helper)
func (m *MockPaymentGateway) CancelIntent(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if intent, exists := m.intents[id]; exists {
		intent.Status = "canceled"
	}
}

// IntentCount returns the number of intents created (test helper)
func (m *MockPaymentGateway) IntentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.intents)
}
