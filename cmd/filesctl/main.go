package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-files-api/internal/config"
	"github.com/go-files-api/internal/infrastructure/docstore"
	"github.com/go-files-api/internal/pkg/logger"
	"github.com/go-files-api/internal/queue"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	rootCmd := newRootCommand(config.Load())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "filesctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filesctl",
		Short: "Files API administration CLI",
		Long: `filesctl runs maintenance tasks against the configured document store and job queue:
creating tables or indexes, re-enqueueing thumbnail jobs and printing counters.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.New(cfg.AppEnv)
		},
	}
	cmd.AddCommand(
		newBootstrapCmd(cfg),
		newThumbnailCmd(cfg),
		newStatsCmd(cfg),
	)
	return cmd
}

func withStores(ctx context.Context, cfg *config.Config, fn func(*docstore.Stores) error) error {
	stores, err := docstore.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer stores.Close(context.Background())
	return fn(stores)
}

func newBootstrapCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create document store tables or indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStores(cmd.Context(), cfg, func(s *docstore.Stores) error {
				if err := s.Bootstrap(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s store ready\n", cfg.DocumentStore)
				return nil
			})
		},
	}
}

func newThumbnailCmd(cfg *config.Config) *cobra.Command {
	var payload queue.ThumbnailPayload
	cmd := &cobra.Command{
		Use:   "thumbnail",
		Short: "Enqueue a thumbnail job for one file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			jobs := queue.NewClient(cfg)
			defer jobs.Close()
			if err := jobs.EnqueueThumbnail(cmd.Context(), payload); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s for file %s\n", queue.ThumbnailTask, payload.FileID)
			return nil
		},
	}
	cmd.Flags().StringVar(&payload.FileID, "file-id", "", "File record id")
	cmd.Flags().StringVar(&payload.UserID, "user-id", "", "Owner user id")
	_ = cmd.MarkFlagRequired("file-id")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newStatsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print user and file counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStores(cmd.Context(), cfg, func(s *docstore.Stores) error {
				users, err := s.Users.Count(cmd.Context())
				if err != nil {
					return fmt.Errorf("count users: %w", err)
				}
				files, err := s.Files.Count(cmd.Context())
				if err != nil {
					return fmt.Errorf("count files: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "users: %d\nfiles: %d\n", users, files)
				return nil
			})
		},
	}
}
