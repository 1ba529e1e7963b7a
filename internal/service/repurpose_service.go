package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/maheshrc27/repurposer/internal/generator"
	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/maheshrc27/repurposer/internal/platform"
)

type TaskInput struct {
	Source      *Source
	Tone        string
	Platforms   []platform.Platform
	UseFallback bool
}

type RegenerateInput struct {
	Tone        string
	Platforms   []platform.Platform
	UseFallback bool
}

type TaskResult struct {
	Original *models.OriginalContent
	Content  generator.Result
	Saved    []*models.RepurposedContent
}

type RepurposeService interface {
	CreateTask(ctx context.Context, userID string, in TaskInput) (*TaskResult, error)
	Regenerate(ctx context.Context, userID, originalID string, in RegenerateInput) (*TaskResult, error)
}

type repurposeService struct {
	gen     *generator.Generator
	content ContentService
}

func NewRepurposeService(gen *generator.Generator, content ContentService) RepurposeService {
	return &repurposeService{gen: gen, content: content}
}

// CreateTask generates content first and only stores the original once the
// model returned something. Sections are then stored one by one; a failure
// stops the loop and keeps what was already written.
func (s *repurposeService) CreateTask(ctx context.Context, userID string, in TaskInput) (*TaskResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if in.Source == nil {
		return nil, ErrEmptyInput
	}

	prompt, err := generator.BuildPrompt(generator.PromptRequest{
		InputType: in.Source.ContentType,
		Tone:      in.Tone,
		Platforms: in.Platforms,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, prompt, in.Source.ContentType, in.Source.Payload, in.UseFallback)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNoContentGenerated
	}

	original, err := s.content.CreateOriginal(ctx, userID, in.Source)
	if err != nil {
		return nil, err
	}

	res := &TaskResult{Original: original, Content: generator.Split(raw, in.Platforms)}
	if err := s.persist(ctx, original.ID, in.Tone, res); err != nil {
		return nil, err
	}

	slog.Info("repurpose task completed", "original_id", original.ID, "sections", len(res.Saved))
	return res, nil
}

// Regenerate asks for new variants seeded with each platform's latest
// version and appends them to the same original.
func (s *repurposeService) Regenerate(ctx context.Context, userID, originalID string, in RegenerateInput) (*TaskResult, error) {
	original, err := s.content.GetOriginal(ctx, userID, originalID)
	if err != nil {
		return nil, err
	}

	prompt, err := generator.BuildPrompt(generator.PromptRequest{
		InputType:  original.ContentType,
		Tone:       in.Tone,
		Platforms:  in.Platforms,
		Previous:   LatestText(original.RepurposedContent),
		Regenerate: true,
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, prompt, original.ContentType, regeneratePayload(original), in.UseFallback)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNoContentGenerated
	}

	res := &TaskResult{Original: original, Content: generator.Split(raw, in.Platforms)}
	if err := s.persist(ctx, original.ID, in.Tone, res); err != nil {
		return nil, err
	}

	original.RepurposedContent = append(original.RepurposedContent, res.Saved...)
	return res, nil
}

func (s *repurposeService) persist(ctx context.Context, originalID, tone string, res *TaskResult) error {
	for _, section := range res.Content.Sections() {
		rc, err := s.content.CreateRepurposed(ctx, originalID, section.Platform, tone, section.Text)
		if err != nil {
			slog.Error("failed to store section", "original_id", originalID, "platform", section.Platform, "error", err)
			return err
		}
		res.Saved = append(res.Saved, rc)
	}
	return nil
}

func regeneratePayload(oc *models.OriginalContent) string {
	if oc.ContentType == models.ContentTypeImage {
		if strings.HasPrefix(oc.ContentText, "data:") || oc.ContentURL == "" {
			return oc.ContentText
		}
		return oc.ContentURL
	}
	if oc.ContentType == models.ContentTypeVideo || oc.ContentType == models.ContentTypeAudio {
		return mediaReference(oc.ContentType, oc.ContentText, oc.ContentURL)
	}
	return truncateRunes(oc.ContentText, maxPayloadRunes)
}

// ParsePlatforms is a convenience for handlers that receive raw strings.
func ParsePlatforms(values []string) ([]platform.Platform, error) {
	ps, err := platform.ParseList(values)
	if err != nil {
		return nil, fmt.Errorf("invalid output types: %w", err)
	}
	return ps, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
