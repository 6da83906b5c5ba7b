package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"digest-orchestrator/internal/di"
	"digest-orchestrator/internal/infra"
	"digest-orchestrator/internal/infra/config"
	"digest-orchestrator/internal/ingestfile"
	"digest-orchestrator/internal/usecase"
)

var (
	version = "dev"

	// Global flags
	verbose    bool
	cursorFile string

	// Ingest command flags
	inputFile string
	batchSize int

	// Run command flags
	preferences []string
	topK        int
	windowHours int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "digest",
	Short:   "Build personalized news digests from the chunk index",
	Version: version,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest articles from a JSONL file into the chunk index",
	Long: `Ingest articles from a JSONL file, one article object per line.

The process can be resumed from where it left off using cursor tracking.

Examples:
  # Ingest a file (resumes from cursor)
  digest ingest --file articles.jsonl

  # Adjust batch size
  digest ingest --file articles.jsonl --batch-size 100`,
	RunE: runIngest,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a digest for the given preferences and print it as JSON",
	Long: `Fetch, index and rank fresh articles for the given preferences.

Examples:
  # Digest for two topics
  digest run --preferences finance,technology

  # Wider freshness window
  digest run --preferences politics --window-hours 72`,
	RunE: runDigest,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chunk index statistics",
	RunE:  showStats,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current ingest cursor status",
	RunE:  showStatus,
}

var resetCmd = &cobra.Command{
	Use:   "reset-cursor",
	Short: "Reset the ingest cursor to start from the beginning",
	RunE:  resetCursor,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cursorFile, "cursor-file", "digest-cursor.json", "cursor file path")

	ingestCmd.Flags().StringVar(&inputFile, "file", "", "JSONL file to ingest (required)")
	ingestCmd.Flags().IntVar(&batchSize, "batch-size", 50, "articles per batch")
	_ = ingestCmd.MarkFlagRequired("file")

	runCmd.Flags().StringSliceVar(&preferences, "preferences", nil, "preference topics (required)")
	runCmd.Flags().IntVar(&topK, "top-k", 0, "chunks to retrieve per preference (0 uses the default)")
	runCmd.Flags().IntVar(&windowHours, "window-hours", 0, "freshness window in hours (0 uses the default)")
	_ = runCmd.MarkFlagRequired("preferences")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resetCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

// connect wires the application against the configured database.
func connect(ctx context.Context, logger *slog.Logger) (*di.ApplicationComponents, *pgxpool.Pool, error) {
	cfg := config.Load()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := infra.NewPostgresDB(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to db: %w", err)
	}

	components, err := di.NewApplicationComponents(cfg, pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return components, pool, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runIngest(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, cancel := signalContext()
	defer cancel()

	components, pool, err := connect(ctx, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	manager := ingestfile.NewCursorManager(cursorFile)
	if err := manager.Lock(); err != nil {
		return err
	}
	defer func() {
		if unlockErr := manager.Unlock(); unlockErr != nil {
			logger.Warn("failed to unlock cursor", slog.String("error", unlockErr.Error()))
		}
	}()

	cursor, err := manager.Load()
	if err != nil {
		return err
	}
	if !cursor.Matches(inputFile) {
		return fmt.Errorf("cursor %s tracks %s, not %s; use reset-cursor to start over",
			cursorFile, cursor.SourceFile, inputFile)
	}
	if cursor.NextLine > 0 {
		logger.Info("resuming ingest",
			slog.String("file", inputFile),
			slog.Int("next_line", cursor.NextLine))
	}

	total := usecase.IngestReport{}
	loader := ingestfile.NewLoader(inputFile, batchSize, logger)
	err = loader.Read(cursor.NextLine, func(batch ingestfile.Batch) error {
		report, err := components.IngestUsecase.Ingest(ctx, batch.Articles)
		if report != nil {
			total.Ingested += report.Ingested
			total.Skipped += report.Skipped
			total.Failed += report.Failed
		}
		if err != nil {
			return err
		}

		cursor.SourceFile = inputFile
		cursor.NextLine = batch.NextLine
		cursor.ProcessedCount += len(batch.Articles)
		if err := manager.Save(cursor); err != nil {
			return err
		}

		logger.Info("batch ingested",
			slog.Int("line", batch.NextLine),
			slog.Int("ingested", total.Ingested),
			slog.Int("skipped", total.Skipped),
			slog.Int("failed", total.Failed))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("ingest interrupted, cursor saved for resume")
			return nil
		}
		return fmt.Errorf("ingest %s: %w", inputFile, err)
	}

	fmt.Printf("Ingested %d, skipped %d, failed %d\n", total.Ingested, total.Skipped, total.Failed)
	return nil
}

func runDigest(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, cancel := signalContext()
	defer cancel()

	components, pool, err := connect(ctx, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	input := usecase.DigestInput{
		Preferences: preferences,
		TopK:        topK,
		Window:      time.Duration(windowHours) * time.Hour,
	}
	output, err := components.DigestUsecase.Build(ctx, input)
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func showStats(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ctx, cancel := signalContext()
	defer cancel()

	components, pool, err := connect(ctx, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	count, err := components.Index.Count(ctx)
	if err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}

	fmt.Printf("Chunk Index:\n")
	fmt.Printf("  Total Chunks: %d\n", count)
	return nil
}

func showStatus(cmd *cobra.Command, args []string) error {
	manager := ingestfile.NewCursorManager(cursorFile)

	cursor, err := manager.Load()
	if err != nil {
		return fmt.Errorf("get cursor: %w", err)
	}

	if cursor.IsEmpty() {
		fmt.Println("No cursor found. Ingest will start from the beginning.")
		return nil
	}

	fmt.Printf("Cursor Status:\n")
	fmt.Printf("  Version:         %d\n", cursor.Version)
	fmt.Printf("  Source File:     %s\n", cursor.SourceFile)
	fmt.Printf("  Next Line:       %d\n", cursor.NextLine)
	fmt.Printf("  Processed Count: %d\n", cursor.ProcessedCount)
	fmt.Printf("  Updated At:      %s\n", cursor.UpdatedAt.Format(time.RFC3339))

	return nil
}

func resetCursor(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	manager := ingestfile.NewCursorManager(cursorFile)
	if err := manager.Reset(); err != nil {
		return fmt.Errorf("reset cursor: %w", err)
	}

	logger.Info("cursor reset successfully")
	return nil
}
