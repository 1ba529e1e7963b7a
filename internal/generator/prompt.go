package generator

import (
	"fmt"
	"strings"

	"github.com/maheshrc27/repurposer/internal/platform"
)

// Prompt is the system instruction sent with every generation call.
type Prompt struct {
	System string
}

type PromptRequest struct {
	InputType string
	Tone      string
	Platforms []platform.Platform
	// Previous holds the latest text per platform; only read when Regenerate is set.
	Previous   map[platform.Platform]string
	Regenerate bool
}

const noPreviousContent = "None"

// BuildPrompt renders one instruction line and one format header per
// requested platform, in request order.
func BuildPrompt(req PromptRequest) (Prompt, error) {
	for _, p := range req.Platforms {
		if !p.Valid() {
			return Prompt{}, fmt.Errorf("%w: %q", platform.ErrUnknownPlatform, string(p))
		}
	}

	var sb strings.Builder
	sb.WriteString("You are a content repurposing expert.\n")
	sb.WriteString(fmt.Sprintf("Analyze the %s and convert it into multiple formats with a %s tone.\n", req.InputType, req.Tone))
	sb.WriteString("Please provide content for each requested platform, clearly separated by platform headers:\n")

	for _, p := range req.Platforms {
		line := fmt.Sprintf("- For %s: %s", p.Label(), p.Instruction())
		if req.Regenerate {
			prev := strings.TrimSpace(req.Previous[p])
			if prev == "" {
				prev = noPreviousContent
			}
			line += " Previous content: " + prev
		}
		sb.WriteString(line + "\n")
	}

	if req.Regenerate {
		sb.WriteString("\nRecreate the content based on the previous content.\n")
	}

	sb.WriteString("\nFormat your response like this:\n")
	for i, p := range req.Platforms {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(p.Header() + "\n")
		sb.WriteString(p.Example() + "\n")
	}

	return Prompt{System: sb.String()}, nil
}
