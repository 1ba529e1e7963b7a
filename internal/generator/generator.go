package generator

import (
	"context"
	"log/slog"
	"strings"
)

// Generator routes a request to the live client or to the fallback.
type Generator struct {
	live     LLMClient
	fallback LLMClient
}

// NewGenerator accepts a nil live client; only fallback calls succeed then.
func NewGenerator(live LLMClient) *Generator {
	return &Generator{live: live, fallback: FallbackLLM{}}
}

// Generate returns the trimmed raw response, "" when the model produced
// nothing. Errors from the client are returned unchanged.
func (g *Generator) Generate(ctx context.Context, prompt Prompt, inputType, payload string, useFallback bool) (string, error) {
	client := g.live
	if useFallback {
		client = g.fallback
	}
	if client == nil {
		return "", ErrNoLLM
	}

	slog.Info("generating content", "input_type", inputType, "fallback", useFallback)

	raw, err := client.Complete(ctx, Request{
		System:    prompt.System,
		InputType: inputType,
		Payload:   payload,
	})
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return strings.TrimSpace(raw), nil
}
