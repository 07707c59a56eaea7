package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
)

const (
	AssistantFallbackReply = "I'm having trouble connecting to the network right now. Please try again later."
	assistantTemperature   = 0.7
)

// TextGenerator is the generative-text backend.
type TextGenerator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (string, error)
}

type AssistantService interface {
	CreateSession() uuid.UUID
	SendMessage(ctx context.Context, sessionID uuid.UUID, text string) (string, error)
	History(sessionID uuid.UUID) ([]model.ChatMessage, error)
}

func NewAssistantService(generator TextGenerator, catalog *model.Catalog, logger logrus.FieldLogger) AssistantService {
	return &assistantService{
		generator: generator,
		prompt:    AssistantSystemPrompt(catalog),
		logger:    logger,
		sessions:  make(map[uuid.UUID][]model.ChatMessage),
	}
}

type assistantService struct {
	generator TextGenerator
	prompt    string
	logger    logrus.FieldLogger

	mu       sync.Mutex
	sessions map[uuid.UUID][]model.ChatMessage
}

func (s *assistantService) CreateSession() uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id
}

// SendMessage never fails because of the backend; it answers with AssistantFallbackReply instead.
func (s *assistantService) SendMessage(ctx context.Context, sessionID uuid.UUID, text string) (string, error) {
	s.mu.Lock()
	history, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return "", model.ErrChatSessionNotFound
	}

	userMsg := model.ChatMessage{Role: model.ChatRoleUser, Text: text, Timestamp: time.Now().UTC()}
	conversation := append(append([]model.ChatMessage(nil), history...), userMsg)

	temperature := assistantTemperature
	reply, err := s.generator.Generate(ctx, model.GenerationRequest{
		SystemInstruction: s.prompt,
		History:           conversation,
		Temperature:       &temperature,
	})
	if err != nil {
		s.logger.WithError(err).WithField("sessionID", sessionID).Error("assistant backend failed")
		return AssistantFallbackReply, nil
	}

	modelMsg := model.ChatMessage{Role: model.ChatRoleModel, Text: reply, Timestamp: time.Now().UTC()}
	s.mu.Lock()
	s.sessions[sessionID] = append(s.sessions[sessionID], userMsg, modelMsg)
	s.mu.Unlock()

	return reply, nil
}

func (s *assistantService) History(sessionID uuid.UUID) ([]model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history, ok := s.sessions[sessionID]
	if !ok {
		return nil, model.ErrChatSessionNotFound
	}
	return append([]model.ChatMessage(nil), history...), nil
}

type promptProduct struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Desc     string `json:"desc"`
}

// AssistantSystemPrompt embeds the whole catalog so answers stay on-catalog.
func AssistantSystemPrompt(catalog *model.Catalog) string {
	products := catalog.Products()
	items := make([]promptProduct, len(products))
	for i, p := range products {
		items[i] = promptProduct{Name: p.Name, Price: model.FormatCents(p.PriceCents), Category: p.Category, Desc: p.Description}
	}
	data, _ := json.Marshal(items)

	return fmt.Sprintf(`You are StrideBot, the expert sales associate for StrideZero, a premium athletic footwear brand.
Your goal is to help customers find the perfect shoe from our catalog, offer styling advice, and answer questions about running/training.

Here is our current product catalog data:
%s

Rules:
1. Be concise, energetic, and professional.
2. Only recommend products from the StrideZero catalog provided above.
3. If asked about prices, use the data provided.
4. Keep responses under 3 sentences unless a detailed technical explanation is requested.
5. Emphasize "performance", "comfort", and "style".
`, data)
}
