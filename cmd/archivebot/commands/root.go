package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-archivebot/internal/cache"
	"github.com/qepting91/reddit-archivebot/internal/config"
	"github.com/qepting91/reddit-archivebot/internal/fetcher"
)

const (
	fetchInterval     = 2 * time.Second
	downloadTimeout   = 60 * time.Second
	screenshotTimeout = 30 * time.Second
)

var rootCmd = &cobra.Command{
	Use:           "archivebot",
	Short:         "archivebot answers reddit posts that link craigslist ads with an archived copy of the ad.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the command line and returns the exit code.
func ExecuteContext(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// setup loads the configuration and installs the process logger.
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// pipeline builds the collaborators every archive needs.
func pipeline(cfg config.Config) (*fetcher.Fetcher, *cache.Cache, error) {
	c, err := cache.New(cfg.CacheDir, downloadTimeout)
	if err != nil {
		return nil, nil, err
	}
	return fetcher.New(fetchInterval), c, nil
}
