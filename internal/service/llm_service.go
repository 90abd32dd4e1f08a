package service

import (
	"context"
	"errors"
	"fmt"

	"cs-agent/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Complete when no provider credential is
// configured. Callers surface it as service-unavailable; it is never
// retried or masked.
var ErrNotConfigured = errors.New("gigachat api key not configured")

// CallOptions override provider settings for a single call. Zero values
// fall back to the configured defaults.
type CallOptions struct {
	Model     string
	MaxTokens int
}

// LLMService is the gateway to the model provider. Every Complete call is
// exactly one network round trip: no retry, no streaming, no partial-result
// handling. Provider failures propagate to the caller unchanged apart from
// call-site wrapping.
type LLMService struct {
	client *gigago.Client
	config *config.GigaChatConfig
	logger *zap.Logger
}

// NewLLMService builds the provider client. A missing API key is not a
// startup error — the service is constructed without a client and every
// call reports ErrNotConfigured until one is configured.
func NewLLMService(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	s := &LLMService{config: cfg, logger: logger}

	if cfg.APIKey == "" {
		logger.Warn("GIGACHAT_API_KEY not set, AI operations will fail until it is configured")
		return s, nil
	}

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}
	s.client = client

	return s, nil
}

// Complete sends one system+user exchange to the model and returns the raw
// reply text.
func (s *LLMService) Complete(ctx context.Context, system, user string, opts CallOptions) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	modelID := opts.Model
	if modelID == "" {
		modelID = s.config.ModelRespond
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.config.MaxTokens
	}

	model := s.client.GenerativeModel(modelID)
	model.SystemInstruction = system
	model.Temperature = 0.3
	model.MaxTokens = int32(maxTokens)

	resp, err := model.Generate(ctx, []gigago.Message{
		{Role: gigago.RoleUser, Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("gigachat generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("gigachat generate: no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Close releases the provider client.
func (s *LLMService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
