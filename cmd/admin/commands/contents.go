package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moodcal/moodcal-api/internal/config"
	"github.com/moodcal/moodcal-api/internal/database"
	"github.com/moodcal/moodcal-api/internal/models"
)

// NewContentsCmd creates the contents command with import and list subcommands.
func NewContentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contents",
		Short: "Manage the content catalog",
		Long:  "Import catalog records from a JSON file or list the current catalog.",
	}
	cmd.AddCommand(newContentsImportCmd())
	cmd.AddCommand(newContentsListCmd())
	return cmd
}

func newContentsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import catalog records from a JSON file",
		Long:  "Read an array of content records from a JSON file and upsert them by content_id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog file: %w", err)
			}

			var contents []*models.Content
			if err := json.Unmarshal(data, &contents); err != nil {
				return fmt.Errorf("parse catalog file: %w", err)
			}
			if len(contents) == 0 {
				return fmt.Errorf("catalog file contains no records")
			}
			for i, c := range contents {
				if c.ContentID == 0 {
					return fmt.Errorf("record %d has no content_id", i)
				}
				if c.Title == "" {
					return fmt.Errorf("record %d (content_id %d) has no title", i, c.ContentID)
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			repo := database.NewContentRepository(db)
			if err := repo.UpsertBatch(context.Background(), contents); err != nil {
				return fmt.Errorf("import catalog: %w", err)
			}

			fmt.Printf("Imported %d catalog records\n", len(contents))
			return nil
		},
	}
}

func newContentsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer func() {
				_ = db.Close()
			}()

			repo := database.NewContentRepository(db)
			contents, err := repo.GetAll(context.Background())
			if err != nil {
				return fmt.Errorf("list catalog: %w", err)
			}
			if len(contents) == 0 {
				fmt.Println("Catalog is empty. Use 'contents import' to load records.")
				return nil
			}

			for _, c := range contents {
				fmt.Printf("  %d\t%s\t%s\n", c.ContentID, c.Title, c.Platform)
			}
			fmt.Printf("%d catalog records\n", len(contents))
			return nil
		},
	}
}
