package enrichment

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/infrastructure/llm"
)

const aiSystemPrompt = `You are an assistant that produces a STRICT JSON schema for a product identified by a barcode.
Return ONLY valid JSON with these keys: name, description, brand, imageUrl, quantity, categories.
Use null for any key that does not apply or is unknown. Do not include extra text.`

const aiUserPromptFormat = `Given the barcode: %s

Goal: produce strictly a JSON object with these keys and string-or-null values:
{
  "name": string | null,
  "description": string | null,
  "brand": string | null,
  "imageUrl": string | null,
  "quantity": string | null,
  "categories": string | null
}

Do not add comments or text outside the JSON.`

// AIProvider asks the model to describe a barcode from its training data
// alone. Last resort in the lookup chain.
type AIProvider struct {
	llm    *llm.Client
	logger *zap.Logger
}

// NewAIProvider creates a new model-only lookup provider
func NewAIProvider(client *llm.Client, logger *zap.Logger) *AIProvider {
	return &AIProvider{
		llm:    client,
		logger: logger.Named("ai"),
	}
}

// Name implements Provider
func (p *AIProvider) Name() string {
	return "ai"
}

// Lookup implements Provider
func (p *AIProvider) Lookup(ctx context.Context, code string) (*catalog.ExternalProduct, error) {
	if !p.llm.Enabled() {
		return nil, llm.ErrNotConfigured
	}

	resp, err := p.llm.Chat(ctx, aiSystemPrompt, fmt.Sprintf(aiUserPromptFormat, code), nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm returned empty response")
	}

	raw, err := ExtractTrailingJSON(strings.TrimSpace(resp.Choices[0].Message.Content.Text))
	if err != nil {
		return nil, err
	}
	mapped, err := MapProductJSON(raw)
	if err != nil {
		return nil, err
	}
	if mapped.IsEmpty() {
		return nil, ErrNoMatch
	}

	return &catalog.ExternalProduct{
		Source: p.Name(),
		Raw:    raw,
		Mapped: mapped,
	}, nil
}

var _ Provider = (*AIProvider)(nil)
