package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	mu   sync.Mutex
	auth string
	path string
	body []byte
	hits int
}

func newCompletionServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured.mu.Lock()
		captured.auth = r.Header.Get("Authorization")
		captured.path = r.URL.Path
		captured.body = body
		captured.hits++
		captured.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

const completionOK = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o",
	"choices": [
		{
			"index": 0,
			"message": {"role": "assistant", "content": "  Subject: Weekend Sale\n\nCome see us this weekend.  "},
			"finish_reason": "stop"
		}
	],
	"usage": {"prompt_tokens": 10, "completion_tokens": 10, "total_tokens": 20}
}`

func TestOpenAIGenerateEmail(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusOK, completionOK)

	c := NewOpenAIClient("", srv.URL, "")
	got, err := c.GenerateEmail(context.Background(), EmailRequest{
		BusinessText: "We sell rare teas.",
		PromoDetails: "20% off this weekend",
		APIKey:       "sk-test",
	})
	require.NoError(t, err)
	assert.Equal(t, "Subject: Weekend Sale\n\nCome see us this weekend.", got)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	assert.Equal(t, "Bearer sk-test", captured.auth)
	assert.Equal(t, "/chat/completions", captured.path)

	var reqBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(captured.body, &reqBody))
	assert.Equal(t, "gpt-4o", reqBody.Model)
	require.Len(t, reqBody.Messages, 2)
	assert.Equal(t, "system", reqBody.Messages[0].Role)
	assert.Equal(t, SystemPrompt, reqBody.Messages[0].Content)
	assert.Equal(t, "user", reqBody.Messages[1].Role)
	assert.Contains(t, reqBody.Messages[1].Content, "BUSINESS DETAILS (from website and/or user):")
	assert.Contains(t, reqBody.Messages[1].Content, "20% off this weekend")
}

func TestOpenAIGenerateEmailCustomModel(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusOK, completionOK)

	c := NewOpenAIClient("sk-default", srv.URL, "gpt-4o-mini")
	_, err := c.GenerateEmail(context.Background(), EmailRequest{PromoDetails: "promo"})
	require.NoError(t, err)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	assert.Equal(t, "Bearer sk-default", captured.auth)

	var reqBody struct {
		Model string `json:"model"`
	}
	require.NoError(t, json.Unmarshal(captured.body, &reqBody))
	assert.Equal(t, "gpt-4o-mini", reqBody.Model)
}

func TestOpenAIGenerateEmailServiceError(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusInternalServerError,
		`{"error": {"message": "boom", "type": "server_error"}}`)

	c := NewOpenAIClient("sk-test", srv.URL, "")
	_, err := c.GenerateEmail(context.Background(), EmailRequest{PromoDetails: "promo"})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	assert.Equal(t, 1, captured.hits, "must not retry")
}

func TestOpenAIGenerateEmailEmptyChoices(t *testing.T) {
	srv, _ := newCompletionServer(t, http.StatusOK,
		`{"id": "chatcmpl-2", "object": "chat.completion", "created": 1700000000, "model": "gpt-4o", "choices": []}`)

	c := NewOpenAIClient("sk-test", srv.URL, "")
	got, err := c.GenerateEmail(context.Background(), EmailRequest{PromoDetails: "promo"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenAIGenerateEmailMissingKey(t *testing.T) {
	srv, captured := newCompletionServer(t, http.StatusOK, completionOK)

	c := NewOpenAIClient("", srv.URL, "")
	_, err := c.GenerateEmail(context.Background(), EmailRequest{PromoDetails: "promo"})

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	assert.Zero(t, captured.hits, "must not call the service without a key")
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		wantProvider string
		wantType     any
	}{
		{
			name:         "explicit mock",
			opts:         Options{Provider: "mock"},
			wantProvider: ProviderMock,
			wantType:     &MockClient{},
		},
		{
			name:         "auto-detect without key",
			opts:         Options{},
			wantProvider: ProviderMock,
			wantType:     &MockClient{},
		},
		{
			name:         "auto-detect with key",
			opts:         Options{APIKey: "sk-x"},
			wantProvider: ProviderOpenAI,
			wantType:     &OpenAIClient{},
		},
		{
			name:         "explicit openai without key",
			opts:         Options{Provider: "openai"},
			wantProvider: ProviderOpenAI,
			wantType:     &OpenAIClient{},
		},
		{
			name:         "unknown provider falls back to mock",
			opts:         Options{Provider: "whatever"},
			wantProvider: ProviderMock,
			wantType:     &MockClient{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, provider := NewClient(tt.opts)
			assert.Equal(t, tt.wantProvider, provider)
			assert.IsType(t, tt.wantType, client)
		})
	}
}

func TestMockClientGenerateEmail(t *testing.T) {
	c := NewMockClient()
	got, err := c.GenerateEmail(context.Background(), EmailRequest{
		BusinessText: "corner bakery",
		PromoDetails: "free coffee with any pastry",
	})
	require.NoError(t, err)
	assert.Contains(t, got, "Subject:")
	assert.Contains(t, got, "free coffee with any pastry")
}

func TestGenerationErrorUnwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := &GenerationError{Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "email generation failed")
}
