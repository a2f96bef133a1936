package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/infrastructure/llm"
)

const maxSearchRounds = 4

const aiWebSystemPrompt = `You are a research assistant. You may use the exaSearch tool to refine your search.
Your FINAL output must be ONLY a valid JSON object with the keys: name, description, brand, imageUrl, quantity, categories.`

// AIWebProvider asks the model to research a barcode on the web. It seeds
// the conversation with an initial search and lets the model call the
// search tool until it produces the product JSON.
type AIWebProvider struct {
	llm    *llm.Client
	exa    *ExaClient
	logger *zap.Logger
}

// NewAIWebProvider creates a new web-research lookup provider
func NewAIWebProvider(client *llm.Client, exa *ExaClient, logger *zap.Logger) *AIWebProvider {
	return &AIWebProvider{
		llm:    client,
		exa:    exa,
		logger: logger.Named("ai-web"),
	}
}

// Name implements Provider
func (p *AIWebProvider) Name() string {
	return "ai-web"
}

func exaSearchTool() openrouter.Tool {
	return openrouter.Tool{
		Type: openrouter.ToolTypeFunction,
		Function: &openrouter.FunctionDefinition{
			Name:        "exaSearch",
			Description: "Performs a web search and returns associated results.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"minLength":   1,
						"description": "Search query.",
					},
					"numResults": map[string]any{
						"type":        "integer",
						"minimum":     1,
						"maximum":     8,
						"description": "Number of results to return, default 5.",
					},
				},
				"required":             []string{"query"},
				"additionalProperties": false,
			},
		},
	}
}

// Lookup implements Provider
func (p *AIWebProvider) Lookup(ctx context.Context, code string) (*catalog.ExternalProduct, error) {
	if !p.llm.Enabled() {
		return nil, llm.ErrNotConfigured
	}
	if !p.exa.Enabled() {
		return nil, ErrExaNotConfigured
	}

	initial, err := p.exa.Search(ctx, "barcode "+code, 5)
	if err != nil {
		return nil, err
	}

	initialSummary, err := json.Marshal(map[string]any{"initialResults": initial})
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Barcode: %s
Task: research product information on the web. You may call exaSearch as many times as you need.
When done, respond ONLY with this JSON (strings or null):
{"name": string|null, "description": string|null, "brand": string|null, "imageUrl": string|null, "quantity": string|null, "categories": string|null}
Initial context: %s`, code, initialSummary)

	messages := []openrouter.ChatCompletionMessage{
		openrouter.SystemMessage(aiWebSystemPrompt),
		openrouter.UserMessage(prompt),
	}
	tools := []openrouter.Tool{exaSearchTool()}

	for round := 0; round < maxSearchRounds; round++ {
		resp, err := p.llm.ChatWithMessages(ctx, messages, tools)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("llm returned empty response")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return p.parseFinal(code, msg.Content.Text)
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			messages = append(messages, p.executeSearchCall(ctx, call))
		}
	}

	return nil, fmt.Errorf("web research exceeded %d tool rounds", maxSearchRounds)
}

func (p *AIWebProvider) executeSearchCall(ctx context.Context, call openrouter.ToolCall) openrouter.ChatCompletionMessage {
	var args struct {
		Query      string `json:"query"`
		NumResults int    `json:"numResults"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return openrouter.ToolMessage(call.ID, toolErrorPayload(fmt.Sprintf("invalid tool args: %v", err)))
	}
	if call.Function.Name != "exaSearch" {
		return openrouter.ToolMessage(call.ID, toolErrorPayload("unknown tool: "+call.Function.Name))
	}

	results, err := p.exa.Search(ctx, args.Query, args.NumResults)
	if err != nil {
		p.logger.Warn("search tool call failed", zap.String("query", args.Query), zap.Error(err))
		return openrouter.ToolMessage(call.ID, toolErrorPayload(err.Error()))
	}

	payload, err := json.Marshal(map[string]any{"results": results})
	if err != nil {
		return openrouter.ToolMessage(call.ID, toolErrorPayload(err.Error()))
	}
	return openrouter.ToolMessage(call.ID, string(payload))
}

func (p *AIWebProvider) parseFinal(code, text string) (*catalog.ExternalProduct, error) {
	raw, err := ExtractTrailingJSON(strings.TrimSpace(text))
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

func toolErrorPayload(message string) string {
	payload, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, message)
	}
	return string(payload)
}

var _ Provider = (*AIWebProvider)(nil)
