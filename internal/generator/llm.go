package generator

import (
	"context"
	"errors"
)

// LLMClient is a single-shot text completion backend.
type LLMClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request carries the built system prompt and the user payload. For the
// image input type Payload is a data URL or a remote URL, otherwise text.
type Request struct {
	System    string
	InputType string
	Payload   string
}

// LLMSettings configures the live client.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

var ErrNoLLM = errors.New("no live llm client configured")

const InputTypeImage = "image"
