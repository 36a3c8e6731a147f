package insight

import (
	"context"
	"sort"
	"time"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/database"
	"github.com/moodcal/moodcal-api/internal/models"
)

// TitleCount is one ranked entry in a top-N listing.
type TitleCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Service answers aggregate queries over the emotion statistics and the
// calendar corpus.
type Service struct {
	stats     database.EmotionStatsStore
	calendars database.CalendarStore
}

// NewService creates a new insight service.
func NewService(stats database.EmotionStatsStore, calendars database.CalendarStore) *Service {
	return &Service{
		stats:     stats,
		calendars: calendars,
	}
}

// Counts returns the emotion-tag counts recorded for a title. With a
// personality type it returns that bucket only; without one it merges all
// buckets.
func (s *Service) Counts(ctx context.Context, title, personalityType string) (map[string]int, error) {
	stats, err := s.stats.GetByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	return stats.Counts(personalityType), nil
}

// TopByPersonality returns, for each personality type, up to n titles ranked
// by total emotion count. Ties are broken by title so repeated calls rank
// identically.
func (s *Service) TopByPersonality(ctx context.Context, n int) (map[string][]TitleCount, error) {
	if n <= 0 {
		return nil, apperr.New(apperr.Validation, "count must be positive")
	}

	all, err := s.stats.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]map[string]int)
	for _, stats := range all {
		for personality, emotions := range stats.PersonalityEmotions {
			total := 0
			for _, c := range emotions {
				total += c
			}
			if total == 0 {
				continue
			}
			if totals[personality] == nil {
				totals[personality] = make(map[string]int)
			}
			totals[personality][stats.Title] += total
		}
	}

	result := make(map[string][]TitleCount, len(totals))
	for personality, byTitle := range totals {
		result[personality] = rank(byTitle, n)
	}
	return result, nil
}

// TopByEmotion returns, for each emotion tag, up to n titles ranked by how
// often that tag was recorded against the title, summed across personality
// types.
func (s *Service) TopByEmotion(ctx context.Context, n int) (map[string][]TitleCount, error) {
	if n <= 0 {
		return nil, apperr.New(apperr.Validation, "count must be positive")
	}

	all, err := s.stats.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]map[string]int)
	for _, stats := range all {
		for _, emotions := range stats.PersonalityEmotions {
			for emotion, count := range emotions {
				if count == 0 {
					continue
				}
				if totals[emotion] == nil {
					totals[emotion] = make(map[string]int)
				}
				totals[emotion][stats.Title] += count
			}
		}
	}

	result := make(map[string][]TitleCount, len(totals))
	for emotion, byTitle := range totals {
		result[emotion] = rank(byTitle, n)
	}
	return result, nil
}

// EmotionsByPersonality merges the emotion counters across all titles,
// giving each personality type's overall emotion distribution.
func (s *Service) EmotionsByPersonality(ctx context.Context) (map[string]map[string]int, error) {
	all, err := s.stats.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]map[string]int)
	for _, stats := range all {
		for personality, emotions := range stats.PersonalityEmotions {
			if merged[personality] == nil {
				merged[personality] = make(map[string]int)
			}
			for emotion, count := range emotions {
				merged[personality][emotion] += count
			}
		}
	}
	return merged, nil
}

// TodayTop looks at the emotion tags users recorded on the given date and
// returns, for each of those emotions, up to n titles ranked by that
// emotion's count in the statistics.
func (s *Service) TodayTop(ctx context.Context, now time.Time, n int) (map[string][]TitleCount, error) {
	if n <= 0 {
		return nil, apperr.New(apperr.Validation, "count must be positive")
	}

	calendars, err := s.calendars.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	today := now.Format(models.DateLayout)
	todayEmotions := make(map[string]struct{})
	for _, cal := range calendars {
		entry := cal.Entry(today)
		if entry == nil || entry.Moods == nil {
			continue
		}
		for _, emotion := range entry.Moods.Emotion {
			todayEmotions[emotion] = struct{}{}
		}
	}

	if len(todayEmotions) == 0 {
		return map[string][]TitleCount{}, nil
	}

	byEmotion, err := s.TopByEmotion(ctx, n)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]TitleCount, len(todayEmotions))
	for emotion := range todayEmotions {
		if ranked, ok := byEmotion[emotion]; ok {
			result[emotion] = ranked
		} else {
			result[emotion] = []TitleCount{}
		}
	}
	return result, nil
}

// PersonalityMemberCounts returns how many users carry each personality type.
// Users without one are not counted.
func (s *Service) PersonalityMemberCounts(ctx context.Context) (map[string]int, error) {
	calendars, err := s.calendars.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, cal := range calendars {
		if cal.PersonalityType == "" {
			continue
		}
		counts[cal.PersonalityType]++
	}
	return counts, nil
}

// rank orders titles by count descending, title ascending, capped at n.
func rank(byTitle map[string]int, n int) []TitleCount {
	ranked := make([]TitleCount, 0, len(byTitle))
	for title, count := range byTitle {
		ranked = append(ranked, TitleCount{Title: title, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Title < ranked[j].Title
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
