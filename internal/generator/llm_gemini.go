package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiLLM implements LLMClient on the Gemini API.
type GeminiLLM struct {
	client *genai.Client
	Model  string
}

func NewGeminiLLM(ctx context.Context, cfg *LLMSettings) (*GeminiLLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing; set GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiLLM{client: client, Model: model}, nil
}

func (g *GeminiLLM) Close() error {
	return g.client.Close()
}

func (g *GeminiLLM) Complete(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(g.Model)
	model.SetTemperature(DefaultTemperature)
	model.SetMaxOutputTokens(DefaultMaxTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}

	var part genai.Part = genai.Text(req.Payload)
	if req.InputType == InputTypeImage {
		if blob, ok := decodeDataURL(req.Payload); ok {
			part = blob
		}
	}

	resp, err := model.GenerateContent(ctx, part)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(extractText(resp)), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// decodeDataURL turns "data:<mime>;base64,<data>" into an inline blob.
// Remote URLs are left to the caller to send as text.
func decodeDataURL(s string) (genai.Blob, bool) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return genai.Blob{}, false
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return genai.Blob{}, false
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return genai.Blob{}, false
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return genai.Blob{}, false
	}
	return genai.Blob{MIMEType: mime, Data: raw}, true
}
