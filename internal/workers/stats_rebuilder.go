package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/moodcal/moodcal-api/internal/database"
	logpkg "github.com/moodcal/moodcal-api/internal/logger"
	"github.com/moodcal/moodcal-api/internal/models"
	"github.com/moodcal/moodcal-api/internal/queue"
)

// JobProcessor handles one job of a registered type.
type JobProcessor func(ctx context.Context, job *queue.Job) error

type processorEntry struct {
	proc JobProcessor
}

// StatsRebuilder processes stats-rebuild jobs: it rereads every calendar and
// recomputes the emotion statistics from scratch, replacing whatever counts
// had accumulated. This is the administrative reset path for statistics that
// drifted (crashes between entry write and stats update under-count; re-runs
// over-count).
type StatsRebuilder struct {
	calendarRepo database.CalendarStore
	statsRepo    database.EmotionStatsStore
	jobQueue     queue.JobQueue
	logger       *zap.Logger
	registry     map[queue.JobType]processorEntry
}

// NewStatsRebuilder creates a new stats rebuilder and registers the stats_rebuild processor.
// jobQueue may be nil; failed jobs then retry via nack-requeue instead of
// delayed re-enqueue.
func NewStatsRebuilder(
	calendarRepo database.CalendarStore,
	statsRepo database.EmotionStatsStore,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *StatsRebuilder {
	r := &StatsRebuilder{
		calendarRepo: calendarRepo,
		statsRepo:    statsRepo,
		jobQueue:     jobQueue,
		logger:       logger,
		registry:     make(map[queue.JobType]processorEntry),
	}
	r.RegisterProcessor(queue.JobTypeStatsRebuild, r.ProcessStatsRebuildJob)
	return r
}

// RegisterProcessor registers a processor for a job type.
func (r *StatsRebuilder) RegisterProcessor(typ queue.JobType, proc JobProcessor) {
	r.registry[typ] = processorEntry{proc: proc}
}

// ProcessStatsRebuildJob recomputes all emotion statistics from the calendars.
func (r *StatsRebuilder) ProcessStatsRebuildJob(ctx context.Context, job *queue.Job) error {
	r.logger.Info("processing_stats_rebuild_job",
		zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
		zap.String("requested_by", logpkg.SanitizeUserID(job.RequestedBy)),
	)

	calendars, err := r.calendarRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load calendars: %w", err)
	}

	rebuilt, entriesCounted := rebuildStatsFromCalendars(calendars)

	r.logger.Info("aggregated_emotion_statistics",
		zap.Int("calendars", len(calendars)),
		zap.Int("entries_counted", entriesCounted),
		zap.Int("titles", len(rebuilt)),
	)

	// Replace, don't merge: the rebuild is the new truth.
	if err := r.statsRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear emotion statistics: %w", err)
	}
	for _, stats := range rebuilt {
		if err := r.statsRepo.Save(ctx, stats); err != nil {
			return fmt.Errorf("failed to save statistics for %q: %w", stats.Title, err)
		}
	}

	r.logger.Info("successfully_rebuilt_statistics",
		zap.Int("titles", len(rebuilt)),
	)
	return nil
}

// rebuildStatsFromCalendars replays every recommendation event still visible
// in the calendars. Only entries with an extracted title count, and only for
// users with a personality type, mirroring the inline update rules.
func rebuildStatsFromCalendars(calendars []*models.Calendar) ([]*models.EmotionStats, int) {
	byTitle := make(map[string]*models.EmotionStats)
	entriesCounted := 0

	for _, cal := range calendars {
		if cal.PersonalityType == "" {
			continue
		}
		for _, entry := range cal.Entries {
			if entry.Recommendation == nil || entry.Recommendation.Title == "" {
				continue
			}
			if entry.Moods == nil {
				continue
			}
			title := entry.Recommendation.Title
			stats, ok := byTitle[title]
			if !ok {
				stats = models.NewEmotionStats(title)
				byTitle[title] = stats
			}
			stats.Add(cal.PersonalityType, entry.Moods.Emotion)
			entriesCounted++
		}
	}

	rebuilt := make([]*models.EmotionStats, 0, len(byTitle))
	for _, stats := range byTitle {
		rebuilt = append(rebuilt, stats)
	}
	return rebuilt, entriesCounted
}

// ProcessJob processes a job based on its type using the processor registry.
func (r *StatsRebuilder) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()
	if !job.ShouldProcess() {
		fields := []zap.Field{zap.String("job_id", logpkg.SanitizeUserID(job.ID.String()))}
		if job.NotBefore != nil {
			fields = append(fields, zap.Time("not_before", *job.NotBefore))
		}
		r.logger.Debug("stats_rebuild_job_not_ready", fields...)
		if ackErr := msg.Ack(); ackErr != nil {
			r.logger.Warn("failed_to_ack_job_for_later_processing",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(ackErr)),
			)
		}
		return nil
	}

	ent, ok := r.registry[job.Type]
	if !ok {
		if nackErr := msg.Nack(false); nackErr != nil {
			r.logger.Error("failed_to_nack_unknown_job_type",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("job_type", string(job.Type)),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err := ent.proc(ctx, job); err != nil {
		return r.handleJobError(ctx, msg, job, err)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack stats rebuild job: %w", ackErr)
	}
	return nil
}

// handleJobError retries a failed job until its retry budget is spent, then
// sends it to the DLQ. With queue access the retry is re-enqueued as a fresh
// delayed job so the incremented retry count survives redelivery.
func (r *StatsRebuilder) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	r.logger.Error("stats_rebuild_job_failed",
		zap.String("operation", "process_job"),
		zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
		zap.Int("retry_count", job.RetryCount),
		zap.String("error", logpkg.SanitizeError(err)),
	)

	if job.CanRetry() && r.jobQueue != nil {
		notBefore := time.Now().Add(retryDelay(job.RetryCount))
		retryJob := &queue.Job{
			ID:          job.ID,
			Type:        job.Type,
			RequestedBy: job.RequestedBy,
			NotBefore:   &notBefore,
			NotAfter:    job.NotAfter,
			Metadata:    job.Metadata,
			CreatedAt:   job.CreatedAt,
			RetryCount:  job.RetryCount,
			MaxRetries:  job.MaxRetries,
		}
		retryJob.IncrementRetry()

		if ackErr := msg.Ack(); ackErr != nil {
			r.logger.Warn("failed_to_ack_job_before_retry",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(ackErr)),
			)
		}
		if enqueueErr := r.jobQueue.Enqueue(ctx, retryJob); enqueueErr != nil {
			r.logger.Error("failed_to_reenqueue_stats_rebuild_job",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(enqueueErr)),
			)
			return fmt.Errorf("stats rebuild failed, re-enqueue failed: %w", enqueueErr)
		}

		r.logger.Info("stats_rebuild_job_requeued",
			zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
			zap.Int("retry_count", retryJob.RetryCount),
			zap.Int("max_retries", retryJob.MaxRetries),
			zap.Time("not_before", notBefore),
		)
		return fmt.Errorf("stats rebuild failed (will retry): %w", err)
	}

	if job.CanRetry() {
		// No queue access; fall back to an immediate broker-side requeue.
		job.IncrementRetry()
		if nackErr := msg.Nack(true); nackErr != nil {
			r.logger.Warn("failed_to_nack_stats_rebuild_job",
				zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
				zap.String("error", logpkg.SanitizeError(nackErr)),
			)
		}
		return fmt.Errorf("stats rebuild failed (will retry): %w", err)
	}

	r.logger.Error("stats_rebuild_job_exhausted_retries",
		zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
		zap.Int("max_retries", job.MaxRetries),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		r.logger.Warn("failed_to_nack_stats_rebuild_job",
			zap.String("job_id", logpkg.SanitizeUserID(job.ID.String())),
			zap.String("error", logpkg.SanitizeError(nackErr)),
		)
	}
	return fmt.Errorf("stats rebuild failed (max retries): %w", err)
}

// retryDelay backs off exponentially from 30 seconds, capped at 15 minutes.
func retryDelay(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	if retryCount > 5 {
		retryCount = 5
	}
	delay := 30 * time.Second * time.Duration(1<<uint(retryCount))
	if delay > 15*time.Minute {
		delay = 15 * time.Minute
	}
	return delay
}
