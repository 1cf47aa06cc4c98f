package generator

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
type OpenAILLM struct {
	Model     string
	MaxTokens int64
	client    openai.Client
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide api_key_open_ai")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	// no retries: a failed generation is reported to the caller as is
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &OpenAILLM{
		Model:     cfg.Model,
		MaxTokens: int64(cfg.MaxTokens),
		client:    openai.NewClient(opts...),
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt.User),
		},
	}
	if o.MaxTokens > 0 {
		params.MaxTokens = openai.Int(o.MaxTokens)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			raw := apiErr.RawJSON()
			if raw == "" {
				raw = apiErr.Message
			}
			return "", transportError(raw, fmt.Errorf("openai: status %d", apiErr.StatusCode))
		}
		return "", transportError("", fmt.Errorf("openai: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", &ResponseError{Raw: resp.RawJSON(), Err: fmt.Errorf("openai: %w", ErrEmptyResponse)}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", &ResponseError{Raw: resp.RawJSON(), Err: fmt.Errorf("openai: %w", ErrEmptyResponse)}
	}
	return content, nil
}
