package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moodcal/moodcal-api/internal/config"
	"github.com/moodcal/moodcal-api/internal/queue"
)

// NewStatsCmd creates the stats command with the rebuild subcommand.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Manage emotion statistics",
		Long:  "Enqueue maintenance jobs for the emotion statistics aggregates.",
	}
	cmd.AddCommand(newStatsRebuildCmd())
	return cmd
}

func newStatsRebuildCmd() *cobra.Command {
	var requestedBy string
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Enqueue a full statistics rebuild",
		Long:  "Enqueue a job that recomputes all emotion statistics from the stored calendars. The worker replaces the existing aggregates.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("connect to rabbitmq: %w", err)
			}
			defer func() {
				_ = jobQueue.Close()
			}()

			job := queue.NewJob(queue.JobTypeStatsRebuild, requestedBy)
			if err := jobQueue.Enqueue(context.Background(), job); err != nil {
				return fmt.Errorf("enqueue rebuild job: %w", err)
			}

			fmt.Printf("Enqueued stats rebuild job %s\n", job.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&requestedBy, "requested-by", "admin-cli", "Identifier recorded on the job")
	return cmd
}
