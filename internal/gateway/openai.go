package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	defaultChatModel  = "gpt-4o-mini"
	defaultMaxRetries = 3
	baseBackoff       = 500 * time.Millisecond
	maxBackoff        = 4 * time.Second
)

// chatClient is the slice of the OpenAI client the gateway uses.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIConfig holds configuration for the OpenAI-compatible chat
// gateway. BaseURL allows pointing at any compatible endpoint.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32

	// MaxRetries bounds retries of transient failures. Default: 3.
	MaxRetries int
}

// OpenAICompleter implements Completer against an OpenAI-compatible
// chat completion API.
type OpenAICompleter struct {
	client     chatClient
	model      string
	maxTokens  int
	temp       float32
	maxRetries int
	logger     *zap.Logger
}

// NewOpenAICompleter creates a chat completion client.
func NewOpenAICompleter(cfg OpenAIConfig, logger *zap.Logger) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = defaultChatModel
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAICompleter{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		temp:       cfg.Temperature,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}, nil
}

// Complete sends the messages and returns the assistant reply.
// Transient failures are retried with capped exponential backoff.
func (c *OpenAICompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyPrompt
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temp,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			c.logger.Debug("retrying completion",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = mapChatError(err)
			if !retryable(lastErr) {
				return "", lastErr
			}
			continue
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: response contained no choices", ErrUnavailable)
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("completion failed after %d retries: %w", c.maxRetries, lastErr)
}

// retryable reports whether an error class is worth another attempt.
func retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}

// mapChatError classifies a provider error into the package sentinels.
func mapChatError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		case apiErr.HTTPStatusCode >= 500:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		default:
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
