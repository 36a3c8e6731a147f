package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/moodcal/moodcal-api/internal/apperr"
	"github.com/moodcal/moodcal-api/internal/database"
	"github.com/moodcal/moodcal-api/internal/logger"
	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/services/ai"
	"github.com/moodcal/moodcal-api/internal/validation"
)

// Mode selects which catalog the model may recommend from.
type Mode string

const (
	// ModeAllPlatforms lets the model recommend from any platform.
	ModeAllPlatforms Mode = "all_platforms"
	// ModeSubscribedOnly restricts recommendations to the user's subscribed platform.
	ModeSubscribedOnly Mode = "subscribed_platform_only"
)

// Service runs the recommendation pipeline for a calendar entry: build the
// prompt from the entry, call the model, extract the recommendation, persist
// it onto the entry, and feed the emotion statistics.
type Service struct {
	calendars database.CalendarStore
	stats     database.EmotionStatsStore
	generator ai.TextGenerator
	logger    *zap.Logger
}

// NewService creates a new recommendation service.
func NewService(calendars database.CalendarStore, stats database.EmotionStatsStore, generator ai.TextGenerator, log *zap.Logger) *Service {
	return &Service{
		calendars: calendars,
		stats:     stats,
		generator: generator,
		logger:    log,
	}
}

// Generate computes a recommendation for the user's entry on the given date
// and persists it onto the entry, replacing any previous result for that
// date. A model response without an extractable recommendation is still
// persisted as the entry's result text; only the structured recommendation
// stays empty.
func (s *Service) Generate(ctx context.Context, userID, date string, mode Mode) (*models.Entry, error) {
	if err := validation.ValidateDate(date); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid date format", err)
	}

	cal, err := s.calendars.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := cal.Entry(date)
	if entry == nil {
		return nil, apperr.New(apperr.NotFound, "no entry for date")
	}
	if entry.Moods == nil || entry.Moods.IsEmpty() {
		return nil, apperr.New(apperr.NotFound, "entry has no mood tags")
	}

	var instruction, prompt string
	switch mode {
	case ModeSubscribedOnly:
		if cal.Platform == "" {
			return nil, apperr.New(apperr.Validation, "no subscribed platform set")
		}
		instruction = ai.SubscribedPlatformInstruction
		prompt = ai.BuildSubscribedEntryPrompt(entry, cal.Platform)
	case ModeAllPlatforms:
		instruction = ai.AllPlatformInstruction
		prompt = ai.BuildEntryPrompt(entry)
	default:
		return nil, apperr.Newf(apperr.Validation, "unknown recommendation mode: %s", mode)
	}

	response, err := s.generator.Generate(ctx, instruction, prompt)
	if err != nil {
		// Entry stays untouched on model failure.
		switch {
		case ai.IsQuotaError(err):
			return nil, apperr.Wrap(apperr.Upstream, "model quota exhausted", err)
		case ai.IsRateLimitError(err):
			return nil, apperr.Wrap(apperr.Upstream, "model rate limited", err)
		}
		return nil, apperr.Wrap(apperr.Upstream, "text generation failed", err)
	}

	rec := Extract(response)
	entry.ResultText = &response
	entry.Recommendation = rec

	if err := s.calendars.Save(ctx, cal); err != nil {
		return nil, fmt.Errorf("failed to persist recommendation: %w", err)
	}

	if rec == nil {
		s.logger.Info("recommendation_not_extracted",
			zap.String("user_id", logger.SanitizeUserID(userID)),
			zap.String("date", date),
		)
		return entry, nil
	}

	s.updateStatistics(ctx, cal, entry, rec)

	return entry, nil
}

// updateStatistics feeds the emotion counters for the recommended title.
// Statistics are best-effort telemetry: a failure here is logged and never
// fails the recommendation that was already persisted.
func (s *Service) updateStatistics(ctx context.Context, cal *models.Calendar, entry *models.Entry, rec *models.Recommendation) {
	if rec.Title == "" || cal.PersonalityType == "" {
		return
	}

	stats, err := s.stats.GetByTitleOrCreate(ctx, rec.Title)
	if err != nil {
		s.logger.Warn("emotion_stats_load_failed",
			zap.String("title", rec.Title),
			zap.Error(err),
		)
		return
	}

	stats.Add(cal.PersonalityType, entry.Moods.Emotion)

	if err := s.stats.Save(ctx, stats); err != nil {
		s.logger.Warn("emotion_stats_update_failed",
			zap.String("title", rec.Title),
			zap.Error(err),
		)
	}
}
