package generator

import (
	"regexp"
	"strings"

	"github.com/maheshrc27/repurposer/internal/platform"
)

var headerPattern = regexp.MustCompile(`(?i)\[(twitter|instagram|linkedin)\]`)

// Thread is a Twitter section split into tweets. Raw is the section as
// returned by the model and is what gets stored.
type Thread struct {
	Raw    string
	Tweets []string
}

type Caption struct {
	Text string
}

type Post struct {
	Text string
}

// Result holds one optional section per platform. A nil field means the
// platform was not requested or its header was missing from the response.
type Result struct {
	Twitter   *Thread
	Instagram *Caption
	LinkedIn  *Post

	requested []platform.Platform
}

type Section struct {
	Platform platform.Platform
	Text     string
}

// Split extracts every requested section in a single pass. A section runs
// from its header to the next known header or the end of the text. When a
// header repeats, the first occurrence wins.
func Split(raw string, requested []platform.Platform) Result {
	res := Result{requested: requested}

	want := make(map[platform.Platform]bool, len(requested))
	for _, p := range requested {
		want[p] = true
	}

	seen := make(map[platform.Platform]bool, len(requested))
	matches := headerPattern.FindAllStringSubmatchIndex(raw, -1)
	for i, m := range matches {
		p := platform.Platform(strings.ToLower(raw[m[2]:m[3]]))
		if !want[p] || seen[p] {
			continue
		}
		seen[p] = true

		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		text := strings.TrimSpace(raw[m[1]:end])
		if text == "" {
			continue
		}

		switch p {
		case platform.Twitter:
			res.Twitter = &Thread{Raw: text, Tweets: splitTweets(text)}
		case platform.Instagram:
			res.Instagram = &Caption{Text: text}
		case platform.LinkedIn:
			res.LinkedIn = &Post{Text: text}
		}
	}

	return res
}

func splitTweets(text string) []string {
	var tweets []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		tweets = append(tweets, line)
	}
	return tweets
}

// Text returns the storable text of a platform section.
func (r Result) Text(p platform.Platform) (string, bool) {
	switch p {
	case platform.Twitter:
		if r.Twitter != nil {
			return r.Twitter.Raw, true
		}
	case platform.Instagram:
		if r.Instagram != nil {
			return r.Instagram.Text, true
		}
	case platform.LinkedIn:
		if r.LinkedIn != nil {
			return r.LinkedIn.Text, true
		}
	}
	return "", false
}

// Sections lists the present sections in request order.
func (r Result) Sections() []Section {
	var sections []Section
	for _, p := range r.requested {
		if text, ok := r.Text(p); ok {
			sections = append(sections, Section{Platform: p, Text: text})
		}
	}
	return sections
}

func (r Result) Empty() bool {
	return r.Twitter == nil && r.Instagram == nil && r.LinkedIn == nil
}
