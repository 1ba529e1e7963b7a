package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
)

var (
	ErrInvalidYouTubeURL     = errors.New("invalid YouTube URL")
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
)

var videoIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|shorts/|watch\?v=|&v=)([^#&?]*).*`)

// captionMarkers are the placeholders auto captions insert for non-speech.
var captionMarkers = []string{"[Music]", "[Applause]", "[Inaudible]"}

const (
	markerPenalty     = 5
	lowQualityScore   = 80
	markerIssue       = "Found caption markers indicating potential issues"
	emptyIssue        = "Transcript has no words"
	defaultTranscript = "en"
)

var transcriptRecommendations = []string{
	"Check for manually created captions",
	"Use a professional transcription service",
	"Manually review and correct the transcript",
}

// ExtractVideoID returns the 11 character id of a YouTube video link.
func ExtractVideoID(rawURL string) (string, bool) {
	if !strings.Contains(rawURL, "youtu") {
		return "", false
	}
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil || len(m[2]) != 11 {
		return "", false
	}
	return m[2], true
}

// TranscriptFetcher loads the caption text of a video.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

type youtubeTranscripts struct {
	api *ytapi.YouTubeTranscriptApi
}

func NewYouTubeTranscripts() TranscriptFetcher {
	return &youtubeTranscripts{api: ytapi.NewYouTubeTranscriptApi()}
}

// Fetch prefers English tracks and falls back to any language.
func (y *youtubeTranscripts) Fetch(ctx context.Context, videoID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	transcript, err := y.api.GetTranscript(videoID, []string{defaultTranscript, "en-US", "en-GB"})
	if err != nil {
		transcript, err = y.api.GetTranscript(videoID, nil)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTranscriptUnavailable, err)
		}
	}

	var b strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString(" ")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty track", ErrTranscriptUnavailable)
	}
	return text, nil
}

type TranscriptAnalysis struct {
	VideoID         string   `json:"video_id"`
	TotalWords      int      `json:"total_words"`
	ErrorCount      int      `json:"error_count"`
	QualityScore    int      `json:"quality_score"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeTranscript scores a transcript by its caption markers. Each marker
// costs five points off a hundred.
func AnalyzeTranscript(transcript string) *TranscriptAnalysis {
	a := &TranscriptAnalysis{
		TotalWords:      len(strings.Fields(transcript)),
		Issues:          []string{},
		Recommendations: []string{},
	}
	for _, marker := range captionMarkers {
		a.ErrorCount += strings.Count(transcript, marker)
	}

	a.QualityScore = max(0, 100-a.ErrorCount*markerPenalty)
	if a.ErrorCount > 0 {
		a.Issues = append(a.Issues, markerIssue)
	}
	if a.TotalWords == 0 {
		a.Issues = append(a.Issues, emptyIssue)
	}
	if a.QualityScore < lowQualityScore {
		a.Recommendations = append(a.Recommendations, transcriptRecommendations...)
	}
	return a
}

type YouTubeService interface {
	Analyze(ctx context.Context, rawURL string) (*TranscriptAnalysis, error)
}

type youtubeService struct {
	transcripts TranscriptFetcher
}

func NewYouTubeService(transcripts TranscriptFetcher) YouTubeService {
	return &youtubeService{transcripts: transcripts}
}

func (s *youtubeService) Analyze(ctx context.Context, rawURL string) (*TranscriptAnalysis, error) {
	videoID, ok := ExtractVideoID(strings.TrimSpace(rawURL))
	if !ok {
		return nil, ErrInvalidYouTubeURL
	}

	transcript, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	a := AnalyzeTranscript(transcript)
	a.VideoID = videoID
	return a, nil
}
