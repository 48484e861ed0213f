package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// EmailRequest carries the inputs of one generation action. APIKey is the
// session-scoped credential; when empty the provider's configured default
// key is used.
type EmailRequest struct {
	BusinessText string
	PromoDetails string
	APIKey       string
}

type Client interface {
	GenerateEmail(ctx context.Context, req EmailRequest) (string, error)
}

// GenerationError wraps any transport, authentication, or service failure
// from the completion provider.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "email generation failed"
	}
	return fmt.Sprintf("email generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Options selects and configures the completion provider.
type Options struct {
	Provider string // "openai", "mock", or "" to auto-detect
	APIKey   string // server-level default credential
	BaseURL  string // optional OpenAI-compatible endpoint override
	Model    string
}

// NewClient builds the completion client for opts. Without an explicit
// provider it picks openai when a default API key is configured and mock
// otherwise. The resolved provider name is returned for startup logging.
func NewClient(opts Options) (Client, string) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))

	if provider == "" {
		if opts.APIKey != "" {
			provider = ProviderOpenAI
		} else {
			provider = ProviderMock
		}
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(opts.APIKey, opts.BaseURL, opts.Model), ProviderOpenAI
	default:
		if provider != ProviderMock {
			slog.Warn("unknown completion provider, falling back to mock", "provider", provider)
		}
		return NewMockClient(), ProviderMock
	}
}

// MockClient produces a canned draft so the full flow can be exercised
// without a real credential.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) GenerateEmail(ctx context.Context, req EmailRequest) (string, error) {
	// Simulate provider latency
	time.Sleep(500 * time.Millisecond)

	promo := strings.TrimSpace(req.PromoDetails)
	if promo == "" {
		promo = "our latest offer"
	}

	email := fmt.Sprintf(`Subject: Something Special for Our Customers

Hi there,

We wanted to share an offer we think you'll appreciate: %s.

Visit us soon to take advantage of it while it lasts. We look forward to seeing you.

Warm regards,
The Team`, promo)

	return email, nil
}
