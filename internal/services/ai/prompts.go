package ai

import (
	"encoding/json"
	"fmt"

	"github.com/moodcal/moodcal-api/internal/models"
)

// DiaryPlaceholder substitutes for an entry with no diary text.
const DiaryPlaceholder = "no diary provided"

// RecommendationMarker is the label the model is told to put on its final
// line. The extractor looks for this exact string.
const RecommendationMarker = "recommended content:"

// AllPlatformInstruction asks the model for an emotional reading of the entry
// and one recommendation from any streaming platform.
const AllPlatformInstruction = `You are an empathetic counselor who reads a user's daily mood journal.
Given the user's mood tags and diary text, briefly reflect on how their day seems to have felt, then recommend exactly one movie or show that fits that emotional state.
End your response with a final line of the exact form:
recommended content: {platform} {title}
where {platform} is the streaming platform and {title} is the content title.`

// SubscribedPlatformInstruction is the variant that restricts the
// recommendation to the user's subscribed platform.
const SubscribedPlatformInstruction = `You are an empathetic counselor who reads a user's daily mood journal.
Given the user's mood tags and diary text, briefly reflect on how their day seems to have felt, then recommend exactly one movie or show that fits that emotional state.
Only recommend content available on the platform the user subscribes to, which is named in the request.
End your response with a final line of the exact form:
recommended content: {platform} {title}
where {platform} is the streaming platform and {title} is the content title.`

// ChatbotInstruction drives the free-form conversation endpoint.
const ChatbotInstruction = `You are a warm, supportive companion who chats with the user about their day and their feelings.
Listen, ask gentle follow-up questions, and keep replies short and conversational.`

// BuildEntryPrompt renders a calendar entry into the user payload sent with
// the recommendation instructions. An empty diary gets the placeholder so the
// model always sees some text.
func BuildEntryPrompt(entry *models.Entry) string {
	diary := entry.Diary
	if diary == "" {
		diary = DiaryPlaceholder
	}

	moods := entry.Moods
	if moods == nil {
		moods = &models.MoodTags{}
	}
	moodsJSON, err := json.Marshal(moods)
	if err != nil {
		// MoodTags is plain strings and slices; this cannot fail in practice.
		moodsJSON = []byte("{}")
	}

	return fmt.Sprintf("Mood Tags: %s, Diary: %s", moodsJSON, diary)
}

// BuildSubscribedEntryPrompt is the subscribed-platform-only variant; it
// appends the platform the recommendation must come from.
func BuildSubscribedEntryPrompt(entry *models.Entry, platform string) string {
	return fmt.Sprintf("%s, Subscribed Platform: %s", BuildEntryPrompt(entry), platform)
}
