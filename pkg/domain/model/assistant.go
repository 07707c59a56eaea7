package model

import (
	"errors"
	"time"
)

var ErrChatSessionNotFound = errors.New("chat session not found")

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerationRequest is one call to the generative-text backend.
type GenerationRequest struct {
	SystemInstruction string
	History           []ChatMessage
	Temperature       *float64
	ResponseMIMEType  string
}

type MarketingBrief struct {
	ProductName string   `json:"productName"`
	Features    []string `json:"features"`
	Benefit     string   `json:"benefit"`
	Audience    string   `json:"audience"`
	Tone        string   `json:"tone"`
}

type AdCopy struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

type MarketingCopy struct {
	VisualPrompt       string `json:"visualPrompt"`
	ProductDescription string `json:"productDescription"`
	AdCopy             AdCopy `json:"adCopy"`
}

func (m MarketingCopy) Complete() bool {
	return m.VisualPrompt != "" && m.ProductDescription != "" && m.AdCopy.Headline != "" && m.AdCopy.Body != ""
}
