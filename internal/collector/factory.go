package collector

import (
	"github.com/pkg/errors"

	"github.com/qepting91/reddit-archivebot/internal/config"
	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// NewCollector selects the correct implementation based on the MODE
func NewCollector(cfg config.Config) (domain.Collector, error) {
	creds := cfg.Reddit

	switch cfg.CollectorMode {
	case "api":
		if creds.UserAgent == "" {
			return nil, errors.New("REDDIT_USER_AGENT is required for api mode")
		}
		return NewClient(creds.ClientID, creds.ClientSecret, creds.Username, creds.Password, creds.UserAgent)
	case "public":
		if creds.UserAgent == "" {
			return nil, errors.New("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(creds.UserAgent)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, errors.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.CollectorMode)
	}
}
