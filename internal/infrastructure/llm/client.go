package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openrouter "github.com/revrost/go-openrouter"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/infrastructure/config"
)

// ErrNotConfigured is returned when no API key or model is configured.
// Callers treat it like any other provider failure and move on.
var ErrNotConfigured = errors.New("llm is not configured")

// Client wraps the OpenRouter chat API. A client built without credentials
// stays disabled and rejects calls instead of failing at startup.
type Client struct {
	client  *openrouter.Client
	model   string
	logger  *zap.Logger
	enabled bool
}

// NewClient creates an LLM client from the enrichment configuration
func NewClient(cfg config.EnrichmentConfig, logger *zap.Logger) *Client {
	logger = logger.Named("llm")
	model := strings.TrimSpace(cfg.LLMModel)
	apiKey := strings.TrimSpace(cfg.LLMAPIKey)

	if model == "" || apiKey == "" {
		logger.Warn("LLM config is incomplete; LLM calls will be disabled",
			zap.Bool("has_model", model != ""),
			zap.Bool("has_api_key", apiKey != ""),
		)
		return &Client{
			model:  model,
			logger: logger,
		}
	}

	clientCfg := openrouter.DefaultConfig(apiKey)
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}

	return &Client{
		client:  openrouter.NewClientWithConfig(*clientCfg),
		model:   model,
		logger:  logger,
		enabled: true,
	}
}

// Enabled reports whether the client has credentials and can make calls
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Chat sends a system+user prompt pair and returns the completion
func (c *Client) Chat(ctx context.Context, systemPrompt, userPrompt string, tools []openrouter.Tool) (openrouter.ChatCompletionResponse, error) {
	if c == nil || !c.enabled || c.client == nil {
		return openrouter.ChatCompletionResponse{}, ErrNotConfigured
	}

	messages := []openrouter.ChatCompletionMessage{
		openrouter.SystemMessage(systemPrompt),
		openrouter.UserMessage(userPrompt),
	}
	return c.ChatWithMessages(ctx, messages, tools)
}

// ChatWithMessages sends a full message history, used for tool call loops
func (c *Client) ChatWithMessages(ctx context.Context, messages []openrouter.ChatCompletionMessage, tools []openrouter.Tool) (openrouter.ChatCompletionResponse, error) {
	if c == nil || !c.enabled || c.client == nil {
		return openrouter.ChatCompletionResponse{}, ErrNotConfigured
	}

	request := openrouter.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
	}

	return c.client.CreateChatCompletion(ctx, request)
}
