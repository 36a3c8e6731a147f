package recommend

import (
	"strings"
	"unicode"

	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/services/ai"
)

// Extract pulls a structured recommendation out of a raw model response.
//
// The model is instructed to finish with a line of the form
// "recommended content: {platform} {title}". Extract takes the last
// non-empty line, and when it carries the marker, splits the remainder on
// the first whitespace run into platform and title, stripping surrounding
// quotes from the title. A response without the marker yields nil: the model
// simply declined to recommend, which is not an error.
func Extract(response string) *models.Recommendation {
	line := lastNonEmptyLine(response)
	if line == "" {
		return nil
	}

	if !strings.HasPrefix(line, ai.RecommendationMarker) {
		return nil
	}

	rest := strings.TrimSpace(line[len(ai.RecommendationMarker):])
	if rest == "" {
		return nil
	}

	platform, title := splitFirstField(rest)
	title = strings.Trim(title, `"'`)

	return &models.Recommendation{
		Platform: platform,
		Title:    title,
	}
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// splitFirstField splits on the first whitespace run. A single field comes
// back as the platform with an empty title.
func splitFirstField(s string) (string, string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}
