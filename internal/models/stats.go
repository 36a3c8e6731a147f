package models

import "time"

// EmotionStats is the per-title aggregate: a two-level map from personality
// type to emotion tag to occurrence count. Counts only grow, except when an
// administrative rebuild replaces the whole record.
type EmotionStats struct {
	Title               string                    `json:"title"`
	PersonalityEmotions map[string]map[string]int `json:"personality_emotions"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

// NewEmotionStats creates an empty aggregate for a title.
func NewEmotionStats(title string) *EmotionStats {
	return &EmotionStats{
		Title:               title,
		PersonalityEmotions: make(map[string]map[string]int),
	}
}

// Add increments the count of each emotion tag for a personality type.
// Repeated tags in one call count multiple times; that mirrors repeated
// emotion selections on an entry.
func (s *EmotionStats) Add(personalityType string, emotions []string) {
	if s.PersonalityEmotions == nil {
		s.PersonalityEmotions = make(map[string]map[string]int)
	}
	counts, ok := s.PersonalityEmotions[personalityType]
	if !ok {
		counts = make(map[string]int)
		s.PersonalityEmotions[personalityType] = counts
	}
	for _, emotion := range emotions {
		counts[emotion]++
	}
}

// Counts returns the emotion counts for one personality type, or the merged
// counts across all types when personalityType is empty. The returned map is
// a copy.
func (s *EmotionStats) Counts(personalityType string) map[string]int {
	out := make(map[string]int)
	if personalityType != "" {
		for emotion, n := range s.PersonalityEmotions[personalityType] {
			out[emotion] = n
		}
		return out
	}
	for _, counts := range s.PersonalityEmotions {
		for emotion, n := range counts {
			out[emotion] += n
		}
	}
	return out
}

// Total returns the sum of all counts for one personality type.
func (s *EmotionStats) Total(personalityType string) int {
	total := 0
	for _, n := range s.PersonalityEmotions[personalityType] {
		total += n
	}
	return total
}
