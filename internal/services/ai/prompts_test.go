package ai

import (
	"strings"
	"testing"

	"github.com/moodcal/moodcal-api/internal/models"
)

func TestBuildEntryPrompt(t *testing.T) {
	t.Parallel()

	entry := &models.Entry{
		Date: "2025-03-14",
		Moods: &models.MoodTags{
			Weather: "sunny",
			Emotion: []string{"joy", "calm"},
		},
		Diary: "walked along the river",
	}

	got := BuildEntryPrompt(entry)
	if !strings.HasPrefix(got, "Mood Tags: ") {
		t.Errorf("prompt missing mood tags prefix: %q", got)
	}
	if !strings.Contains(got, `"joy"`) {
		t.Errorf("prompt missing emotion tag: %q", got)
	}
	if !strings.Contains(got, "Diary: walked along the river") {
		t.Errorf("prompt missing diary text: %q", got)
	}
}

func TestBuildEntryPrompt_EmptyDiary(t *testing.T) {
	t.Parallel()

	entry := &models.Entry{Date: "2025-03-14", Moods: &models.MoodTags{Weather: "rainy"}}
	got := BuildEntryPrompt(entry)
	if !strings.Contains(got, "Diary: "+DiaryPlaceholder) {
		t.Errorf("prompt missing diary placeholder: %q", got)
	}
}

func TestBuildSubscribedEntryPrompt(t *testing.T) {
	t.Parallel()

	entry := &models.Entry{Date: "2025-03-14", Diary: "stayed in"}
	got := BuildSubscribedEntryPrompt(entry, "Netflix")
	if !strings.HasSuffix(got, "Subscribed Platform: Netflix") {
		t.Errorf("prompt missing platform suffix: %q", got)
	}
}

func TestSanitizeAPIKey(t *testing.T) {
	t.Parallel()

	if got := SanitizeAPIKey("sk-1234567890abcdef"); got != "sk-1"+RedactedValue+"cdef" {
		t.Errorf("SanitizeAPIKey = %q", got)
	}
	if got := SanitizeAPIKey("short"); got != RedactedValue {
		t.Errorf("SanitizeAPIKey(short) = %q", got)
	}
	if got := SanitizeAPIKey(""); got != "" {
		t.Errorf("SanitizeAPIKey(empty) = %q", got)
	}
}
