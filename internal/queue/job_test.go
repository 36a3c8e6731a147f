package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestNewJob(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeStatsRebuild, "admin-cli")

	if job.ID == uuid.Nil {
		t.Error("Expected job ID to be set")
	}
	if job.Type != JobTypeStatsRebuild {
		t.Errorf("Expected job type to be %s, got %s", JobTypeStatsRebuild, job.Type)
	}
	if job.RequestedBy != "admin-cli" {
		t.Errorf("Expected requested_by to be admin-cli, got %s", job.RequestedBy)
	}
	if job.Metadata == nil {
		t.Error("Expected metadata to be initialized")
	}
	if job.RetryCount != 0 {
		t.Errorf("Expected retry count to be 0, got %d", job.RetryCount)
	}
	if job.MaxRetries != 3 {
		t.Errorf("Expected max retries to be 3, got %d", job.MaxRetries)
	}
}

func TestJob_ShouldProcess(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name string
		job  *Job
		want bool
	}{
		{
			name: "no time constraints",
			job:  &Job{ID: uuid.New(), Type: JobTypeStatsRebuild},
			want: true,
		},
		{
			name: "not before in past",
			job:  &Job{ID: uuid.New(), Type: JobTypeStatsRebuild, NotBefore: timePtr(now.Add(-1 * time.Hour))},
			want: true,
		},
		{
			name: "not before in future",
			job:  &Job{ID: uuid.New(), Type: JobTypeStatsRebuild, NotBefore: timePtr(now.Add(1 * time.Hour))},
			want: false,
		},
		{
			name: "not after in past",
			job:  &Job{ID: uuid.New(), Type: JobTypeStatsRebuild, NotAfter: timePtr(now.Add(-1 * time.Hour))},
			want: false,
		},
		{
			name: "within window",
			job: &Job{
				ID:        uuid.New(),
				Type:      JobTypeStatsRebuild,
				NotBefore: timePtr(now.Add(-1 * time.Hour)),
				NotAfter:  timePtr(now.Add(1 * time.Hour)),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.job.ShouldProcess(); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_Retry(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeStatsRebuild, "admin-cli")
	for i := 0; i < 3; i++ {
		if !job.CanRetry() {
			t.Fatalf("CanRetry() = false at attempt %d", i)
		}
		job.IncrementRetry()
	}
	if job.CanRetry() {
		t.Error("CanRetry() = true after max retries")
	}
}

func TestJob_IsExpired(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeStatsRebuild, "admin-cli")
	if job.IsExpired() {
		t.Error("job without NotAfter should never expire")
	}

	job.NotAfter = timePtr(time.Now().Add(-time.Minute))
	if !job.IsExpired() {
		t.Error("job past NotAfter should be expired")
	}
}
