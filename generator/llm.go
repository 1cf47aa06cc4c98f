package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport marks a provider that could not be reached or answered
	// with a non-success status.
	ErrTransport = errors.New("provider request failed")
	// ErrEmptyResponse marks a reply without the expected text field.
	ErrEmptyResponse = errors.New("provider returned no content")
	// ErrInvalidFormat marks generated text that does not match the
	// configured output contract.
	ErrInvalidFormat = errors.New("invalid format received from the API")
)

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	MaxTokens  int
	HTTPClient *http.Client
}

// ResponseError keeps the raw provider reply next to the failure so callers
// can log it.
type ResponseError struct {
	Raw string
	Err error
}

func (e *ResponseError) Error() string {
	return e.Err.Error()
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// RawResponse returns the raw reply attached to err, if any.
func RawResponse(err error) string {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Raw
	}
	return ""
}

func transportError(raw string, cause error) error {
	return &ResponseError{Raw: raw, Err: fmt.Errorf("%w: %v", ErrTransport, cause)}
}
