package provider

import (
	"context"
	"errors"

	"github.com/preparly/taxassist/config"
	"github.com/preparly/taxassist/models"
	mock_provider "github.com/preparly/taxassist/provider/mock"
	openai_provider "github.com/preparly/taxassist/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
	Mock   Client = "mock"
)

// Provider is the interface that all LLM implementations must satisfy
type Provider interface {
	ChatCompletion(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.ProvidersConfig) (Provider, error) {
	switch Client(cfg.LLM) {
	case OpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, errors.New("openai api key not set")
		}
		return openai_provider.NewOpenAIClient(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.Temperature,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Timeout,
		), nil
	case Mock:
		return mock_provider.NewMockClient(), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
