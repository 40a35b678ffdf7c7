// Package openai provides the generative-model client used by the risk
// extraction stage.  Provider selection mirrors the deployment reality:
// either the OpenAI public API or an Azure OpenAI deployment, chosen by
// configuration.
package openai

import (
	"context"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// Completer is the narrow generative-model contract the analysis pipeline
// consumes.  Implementations must honour the context deadline.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ClientConfig holds generative-model connection and inference parameters.
type ClientConfig struct {
	Provider    string // "openai" | "azure"
	Endpoint    string
	APIKey      string
	Model       string
	Deployment  string
	APIVersion  string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
}

// Client wraps the openai-go SDK behind the Completer contract.
type Client struct {
	client *openai.Client
	config ClientConfig
	logger logging.Logger
}

// NewClient constructs a Completer for the configured provider.
func NewClient(cfg ClientConfig, logger logging.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeModelUnavailable, "api key is required")
	}
	if cfg.Model == "" && cfg.Deployment == "" {
		return nil, errors.New(errors.ErrCodeModelUnavailable, "model or deployment name is required")
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	var client *openai.Client
	switch cfg.Provider {
	case "azure":
		if cfg.Endpoint == "" {
			return nil, errors.New(errors.ErrCodeModelUnavailable, "endpoint is required for azure provider")
		}
		client = openai.NewClient(
			azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	default: // "openai"
		opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
		if cfg.Endpoint != "" {
			opts = append(opts, option.WithBaseURL(cfg.Endpoint))
		}
		client = openai.NewClient(opts...)
	}

	return &Client{
		client: client,
		config: cfg,
		logger: logger,
	}, nil
}

// model returns the model identifier to send: Azure deployments address the
// model by deployment name.
func (c *Client) model() string {
	if c.config.Provider == "azure" && c.config.Deployment != "" {
		return c.config.Deployment
	}
	return c.config.Model
}

// Complete sends one chat completion and returns the raw assistant text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(c.model()),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		}),
		Temperature: openai.F(c.config.Temperature),
		MaxTokens:   openai.F(c.config.MaxTokens),
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.Wrap(err, errors.ErrCodeTimeout, "model call timed out")
		}
		return "", errors.Wrap(err, errors.ErrCodeModelCallFailed, "model call failed")
	}

	if len(resp.Choices) == 0 {
		return "", errors.New(errors.ErrCodeModelBadResponse, "model returned no choices")
	}

	c.logger.Debug("model call completed",
		logging.String("model", c.model()),
		logging.Int64("prompt_tokens", resp.Usage.PromptTokens),
		logging.Int64("completion_tokens", resp.Usage.CompletionTokens),
		logging.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}
