package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-archivebot/internal/collector"
	"github.com/qepting91/reddit-archivebot/internal/dashboard"
	"github.com/qepting91/reddit-archivebot/internal/domain"
	"github.com/qepting91/reddit-archivebot/internal/ingest"
	"github.com/qepting91/reddit-archivebot/internal/mirror"
	"github.com/qepting91/reddit-archivebot/internal/processor"
	"github.com/qepting91/reddit-archivebot/internal/storage"
)

var runDashboard bool

func init() {
	runCmd.Flags().BoolVar(&runDashboard, "dashboard", true, "Serve the dashboard while running.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--dashboard=false]",
	Short: "Watches the configured subreddits and replies to posts that link craigslist ads.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if cfg.ImgurClientID == "" {
			return errors.New("IMGUR_CLIENT_ID is required to run the bot")
		}
		ctx := cmd.Context()

		store, err := storage.Open(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		if runDashboard {
			go func() {
				logger.Info("Starting Dashboard", "port", cfg.Port)
				if err := dashboard.StartServer(store, cfg.Port, logger); err != nil {
					logger.Error("Dashboard failed", "err", err)
				}
			}()
		}

		targets, err := ingest.LoadTargets(cfg.TargetsFile)
		if err != nil {
			return err
		}

		client, err := collector.NewCollector(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to initialize collector")
		}
		logger.Info("Collector initialized", "mode", cfg.CollectorMode, "targets", len(targets))

		fetch, c, err := pipeline(cfg)
		if err != nil {
			return err
		}
		shots := mirror.NewScreenshotter(screenshotTimeout)
		defer shots.Close()

		// Single writer for the reply log.
		events := make(chan storage.ReplyEvent, 100)
		var writerWg sync.WaitGroup
		writer := &storage.WriterService{Store: store, Logger: logger}
		writerWg.Add(1)
		go writer.Start(&writerWg, events)

		p := processor.NewArchiveProcessor(logger, store, fetch, c, shots,
			mirror.NewImgur(cfg.ImgurClientID, downloadTimeout), events)

		b := &bot{
			collector: client,
			processor: p,
			workers:   cfg.Workers,
			logger:    logger,
		}
		b.loop(ctx, targets, cfg.PollInterval)

		close(events)
		writerWg.Wait()
		logger.Info("Shutdown complete")
		return nil
	},
}

type postProcessor interface {
	ProcessPost(ctx context.Context, post domain.Post) (int, error)
}

type bot struct {
	collector domain.Collector
	processor postProcessor
	workers   int
	logger    *slog.Logger
}

// loop runs a cycle every interval until ctx is done. A zero interval runs a
// single cycle.
func (b *bot) loop(ctx context.Context, targets []domain.Target, interval time.Duration) {
	for {
		b.cycle(ctx, targets)
		if interval == 0 {
			return
		}

		select {
		case <-ctx.Done():
			b.logger.Info("Shutdown signal received")
			return
		case <-time.After(interval):
		}
	}
}

// cycle scans every target once with a pool of workers.
func (b *bot) cycle(ctx context.Context, targets []domain.Target) {
	cycleID := uuid.NewString()
	logger := b.logger.With("cycle", cycleID)
	logger.Info("Starting scrape cycle", "targets", len(targets))
	start := time.Now()

	jobQueue := make(chan domain.Target, len(targets))
	var workerWg sync.WaitGroup
	var mu sync.Mutex
	replies := 0

	for i := 0; i < b.workers; i++ {
		workerWg.Add(1)
		go func(id int) {
			defer workerWg.Done()
			for t := range jobQueue {
				select {
				case <-ctx.Done():
					return
				default:
				}

				posts, err := b.collector.FetchNewPosts(ctx, t.Subreddit, t.Limit)
				if err != nil {
					logger.Error("Scrape failed", "sub", t.Subreddit, "worker", id, "err", err)
					continue
				}
				for _, post := range posts {
					n, err := b.processor.ProcessPost(ctx, post)
					if err != nil {
						logger.Warn("Post not fully archived", "sub", t.Subreddit, "thing", post.FullID, "err", err)
					}
					mu.Lock()
					replies += n
					mu.Unlock()
				}
			}
		}(i)
	}

	for _, t := range targets {
		jobQueue <- t
	}
	close(jobQueue)
	workerWg.Wait()

	logger.Info("Scrape cycle complete", "replies", replies, "elapsed", time.Since(start).String())
}
