package generator

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient with the chat completions API.
type OpenAILLM struct {
	Model  string
	client openai.Client
}

func NewOpenAILLM(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}

	model := cfg.Model
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}

	// a failed call surfaces to the caller as is
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAILLM{Model: model, client: openai.NewClient(opts...)}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, req Request) (string, error) {
	var part openai.ChatCompletionContentPartUnionParam
	if req.InputType == InputTypeImage {
		part = openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: req.Payload,
		})
	} else {
		part = openai.TextContentPart(req.Payload)
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{part}),
		},
		Temperature: openai.Float(DefaultTemperature),
		MaxTokens:   openai.Int(DefaultMaxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
