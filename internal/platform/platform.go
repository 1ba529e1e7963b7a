package platform

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

type Platform string

const (
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
	LinkedIn  Platform = "linkedin"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// All lists the supported platforms in the order they appear in prompts.
var All = []Platform{Instagram, Twitter, LinkedIn}

type policy struct {
	limit       int
	label       string
	instruction string
	example     string
}

var policies = map[Platform]policy{
	Twitter: {
		limit:       280,
		label:       "Twitter",
		instruction: "Create a thread of 3 tweets (each starting with a number). Keep each tweet under 280 characters.",
		example:     "1. (First tweet)\n2. (Second tweet)\n3. (Third tweet)",
	},
	Instagram: {
		limit:       2200,
		label:       "Instagram",
		instruction: "Create a caption with emojis and relevant hashtags.",
		example:     "(Instagram content here)",
	},
	LinkedIn: {
		limit:       3000,
		label:       "LinkedIn",
		instruction: "Create a professional post that's engaging and informative.",
		example:     "(LinkedIn content here)",
	},
}

func Parse(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := policies[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
	return p, nil
}

// ParseList parses every value, keeping the first occurrence of each platform.
func ParseList(values []string) ([]Platform, error) {
	seen := make(map[Platform]struct{}, len(values))
	platforms := make([]Platform, 0, len(values))
	for _, v := range values {
		p, err := Parse(v)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		platforms = append(platforms, p)
	}
	return platforms, nil
}

func (p Platform) Valid() bool {
	_, ok := policies[p]
	return ok
}

func (p Platform) String() string {
	return string(p)
}

func (p Platform) Label() string {
	return policies[p].label
}

// CharLimit returns 0 for unknown platforms.
func (p Platform) CharLimit() int {
	return policies[p].limit
}

func (p Platform) Instruction() string {
	return policies[p].instruction
}

func (p Platform) Header() string {
	return "[" + strings.ToUpper(string(p)) + "]"
}

func (p Platform) Example() string {
	return policies[p].example
}

// CharacterCount counts code points, not bytes.
func CharacterCount(text string) int {
	return utf8.RuneCountInString(text)
}

func (p Platform) IsOverLimit(text string) bool {
	return CharacterCount(text) > p.CharLimit()
}
