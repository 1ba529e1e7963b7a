package service

import (
	"fmt"
	"sort"

	"github.com/maheshrc27/repurposer/internal/models"
	"github.com/maheshrc27/repurposer/internal/platform"
)

// Version is one generated variant of a platform's content. Label is fixed
// in chronological order (V1 is the oldest). Index counts back from the
// newest, so index 0 always means the latest.
type Version struct {
	Label   string                    `json:"label"`
	Index   int                       `json:"index"`
	Content *models.RepurposedContent `json:"content"`
}

// PlatformVersions returns the platform's rows oldest first.
func PlatformVersions(rows []*models.RepurposedContent, p platform.Platform) []Version {
	var filtered []*models.RepurposedContent
	for _, r := range rows {
		if r != nil && r.OutputType == string(p) {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Version != filtered[j].Version {
			return filtered[i].Version < filtered[j].Version
		}
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	versions := make([]Version, len(filtered))
	for i, r := range filtered {
		versions[i] = Version{
			Label:   fmt.Sprintf("V%d", i+1),
			Index:   len(filtered) - 1 - i,
			Content: r,
		}
	}
	return versions
}

// SelectVersion resolves a reversed index. It reports false when the
// platform has no versions or the index is out of range.
func SelectVersion(rows []*models.RepurposedContent, p platform.Platform, index int) (Version, bool) {
	versions := PlatformVersions(rows, p)
	if index < 0 || index >= len(versions) {
		return Version{}, false
	}
	return versions[len(versions)-1-index], true
}

// LatestText returns the newest content per platform.
func LatestText(rows []*models.RepurposedContent) map[platform.Platform]string {
	latest := make(map[platform.Platform]string)
	for _, p := range platform.All {
		if v, ok := SelectVersion(rows, p, 0); ok {
			latest[p] = v.Content.Content
		}
	}
	return latest
}
