package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultModel = "gpt-4o"

// OpenAIClient implements Client against the OpenAI chat-completions API or
// any compatible endpoint.
type OpenAIClient struct {
	defaultKey string
	baseURL    string
	model      string
}

func NewOpenAIClient(defaultKey, baseURL, model string) *OpenAIClient {
	if model == "" {
		model = defaultModel
	}
	return &OpenAIClient{
		defaultKey: defaultKey,
		baseURL:    baseURL,
		model:      model,
	}
}

// GenerateEmail sends one synchronous completion request. The request-scoped
// key wins over the configured default. Any failure comes back as a
// *GenerationError; an empty completion is a valid result — the caller
// decides what to do with it.
func (c *OpenAIClient) GenerateEmail(ctx context.Context, req EmailRequest) (string, error) {
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		key = c.defaultKey
	}
	if key == "" {
		return "", &GenerationError{Err: errors.New("missing API key")}
	}

	// One attempt per action; the SDK's default retry policy stays off.
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(BuildUserPrompt(req.BusinessText, req.PromoDetails)),
		},
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
