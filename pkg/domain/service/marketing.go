package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"storefront/pkg/domain/model"
)

type MarketingService interface {
	// Generate returns nil when the backend fails or its answer is not the expected shape.
	Generate(ctx context.Context, brief model.MarketingBrief) *model.MarketingCopy
}

func NewMarketingService(generator TextGenerator, logger logrus.FieldLogger) MarketingService {
	return &marketingService{generator: generator, logger: logger}
}

type marketingService struct {
	generator TextGenerator
	logger    logrus.FieldLogger
}

func (s *marketingService) Generate(ctx context.Context, brief model.MarketingBrief) *model.MarketingCopy {
	log := s.logger.WithField("product", brief.ProductName)

	text, err := s.generator.Generate(ctx, model.GenerationRequest{
		History:          []model.ChatMessage{{Role: model.ChatRoleUser, Text: MarketingPrompt(brief)}},
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		log.WithError(err).Error("marketing generation failed")
		return nil
	}

	var out model.MarketingCopy
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		log.WithError(err).Error("marketing response is not valid JSON")
		return nil
	}
	if !out.Complete() {
		log.Error("marketing response is missing fields")
		return nil
	}
	return &out
}

func MarketingPrompt(brief model.MarketingBrief) string {
	return fmt.Sprintf(`Act as a master e-commerce marketing strategist and copywriter. Your goal is to generate high-converting promotional material for a new product launch.

PRODUCT: %s
CORE FEATURES: %s
PRIMARY BENEFIT: %s
TARGET AUDIENCE: %s
TONE: %s

Based on the above, provide the following three deliverables:

1. VISUAL PROMPT (for AI Image Generator): A detailed, single-paragraph description for creating a hero banner image. Focus on scene, lighting, style, and the key feeling.
2. PRODUCT DESCRIPTION (120 words max): A compelling description using the PAIN-AGITATE-SOLVE framework. Start by addressing the audience's problem and end with a strong call-to-value.
3. AD COPY (Social Media): Provide one short headline (6 words max) and one body copy snippet (15 words max) optimized for immediate conversion on platforms like Instagram/Facebook. Include an emoji and a clear CTA.

Output the result in strictly valid JSON format with the keys: "visualPrompt", "productDescription", and "adCopy" (which contains "headline" and "body").
`, brief.ProductName, strings.Join(brief.Features, ", "), brief.Benefit, brief.Audience, brief.Tone)
}
