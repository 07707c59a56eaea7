package tests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

var fixedNow = time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func testProducts() []model.Product {
	return []model.Product{
		{
			ID: "p1", Name: "Velocity Runner", Category: "men", PriceCents: 12000,
			Colors: []string{"Black", "White"}, Sizes: []model.Size{"9", "10", "10.5"},
			ReleasedAt: fixedNow.Add(-48 * time.Hour), Description: "Daily trainer",
		},
		{
			ID: "p2", Name: "Apex Trail", Category: "Men", PriceCents: 15000, OriginalPriceCents: 18000,
			Colors: []string{"Olive"}, Sizes: []model.Size{"10", "11"},
			ReleasedAt: fixedNow.Add(-30 * 24 * time.Hour), Description: "Trail shoe", MaterialCostCents: 4600,
		},
		{
			ID: "p3", Name: "Aura Flow", Category: "women", PriceCents: 9000,
			Colors: []string{"Pink", "White"}, Sizes: []model.Size{"7", "8"},
			ReleasedAt: fixedNow.Add(-24 * time.Hour), Description: "Recovery shoe",
		},
		{
			ID: "p4", Name: "Tempo Cap", Category: "accessories", PriceCents: 3000, OriginalPriceCents: 4000,
			Colors: []string{"Black"}, Sizes: []model.Size{"One Size"},
			ReleasedAt: fixedNow.Add(48 * time.Hour), Description: "Running cap",
		},
		{
			ID: "p5", Name: "Vert Pro", Category: "skate", PriceCents: 12000,
			Colors: []string{"Black"}, Sizes: []model.Size{"9"},
			ReleasedAt: fixedNow.Add(-8 * 24 * time.Hour), Description: "Skate shoe",
		},
	}
}

func testCatalog(t *testing.T) *model.Catalog {
	catalog, err := model.NewCatalog(testProducts())
	require.NoError(t, err)
	return catalog
}

type mockEventDispatcher struct {
	mu     sync.Mutex
	events []service.Event
}

func (m *mockEventDispatcher) Dispatch(event service.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}
func (m *mockEventDispatcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

type mockOrderQueue struct {
	mu          sync.Mutex
	payloads    []model.OrderPayload
	ShouldError bool
}

func (m *mockOrderQueue) Enqueue(_ context.Context, _ uuid.UUID, payload model.OrderPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ShouldError {
		return model.ErrQueueFull
	}
	m.payloads = append(m.payloads, payload)
	return nil
}

type mockOrderSink struct {
	mu        sync.Mutex
	submitted []model.OrderPayload
	Err       error
}

func (m *mockOrderSink) Submit(_ context.Context, payload model.OrderPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.submitted = append(m.submitted, payload)
	return nil
}

type mockPaymentRedirector struct {
	ShouldError bool
	Delay       time.Duration
}

func (m *mockPaymentRedirector) PaymentURL(totalCents int64) (string, error) {
	time.Sleep(m.Delay)
	if m.ShouldError {
		return "", errors.New("payment link unavailable")
	}
	return "https://pay.example.com/?amount=" + model.FormatCents(totalCents), nil
}

type mockTextGenerator struct {
	Reply    string
	Err      error
	requests []model.GenerationRequest
}

func (m *mockTextGenerator) Generate(_ context.Context, req model.GenerationRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

type mockSessionStore struct {
	record  *model.SessionRecord
	LoadErr error
	cleared int
}

func (m *mockSessionStore) Load() (*model.SessionRecord, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.record == nil {
		return nil, model.ErrNoSession
	}
	return m.record, nil
}
func (m *mockSessionStore) Save(record *model.SessionRecord) error {
	m.record = record
	return nil
}
func (m *mockSessionStore) Clear() error {
	m.record = nil
	m.LoadErr = nil
	m.cleared++
	return nil
}

type mockTokenIssuer struct{}

func (m *mockTokenIssuer) Issue(user model.User) (string, error) {
	return "token-" + user.Email, nil
}
func (m *mockTokenIssuer) Parse(token string) (*model.User, error) {
	email, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return nil, model.ErrInvalidToken
	}
	return &model.User{Email: email, Token: token}, nil
}
