package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

const geminiRequestTemplate = `{"contents":[{"role":"user","parts":[{"text":""}]}]}`

// GeminiLLM implements LLMClient against the generateContent REST endpoint.
type GeminiLLM struct {
	Model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGeminiLLMFromConfig(cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing; provide api_key_gemini")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &GeminiLLM{
		Model:   cfg.Model,
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *GeminiLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	body, err := sjson.SetBytes([]byte(geminiRequestTemplate), "contents.0.parts.0.text", prompt.User)
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.Model))
	q := url.Values{}
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", transportError("", fmt.Errorf("gemini: %w", redactKey(err, g.apiKey)))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError("", fmt.Errorf("gemini: read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", transportError(string(raw), fmt.Errorf("gemini: status %d", resp.StatusCode))
	}

	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text")
	if !text.Exists() || text.String() == "" {
		return "", &ResponseError{Raw: string(raw), Err: fmt.Errorf("gemini: %w", ErrEmptyResponse)}
	}
	return text.String(), nil
}

// url.Error embeds the full request URL, which carries the key.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}
