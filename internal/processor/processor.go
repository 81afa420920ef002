// Package processor turns reddit posts that link craigslist ads into archive
// replies.
package processor

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/qepting91/reddit-archivebot/internal/cache"
	"github.com/qepting91/reddit-archivebot/internal/craigslist"
	"github.com/qepting91/reddit-archivebot/internal/domain"
	"github.com/qepting91/reddit-archivebot/internal/reply"
	"github.com/qepting91/reddit-archivebot/internal/storage"
)

// ScreenshotName is the file the page screenshot is written to inside an ad's
// cache directory.
const ScreenshotName = "screenshot.png"

type Store interface {
	HasReplied(ctx context.Context, fullID, postID string) (bool, error)
	FindArchiveByPostID(ctx context.Context, postID string) (*domain.Archive, uint, error)
	SaveArchive(ctx context.Context, archive *domain.Archive) (uint, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Cache interface {
	Store(ctx context.Context, ad *domain.Ad, page string) (*cache.Entry, error)
}

type Screenshotter interface {
	Capture(ctx context.Context, src, dest string) error
}

type Mirror interface {
	Create(ctx context.Context, ad *domain.Ad, screenshot string, images []string) (*domain.Archive, error)
}

// ArchiveProcessor orchestrates the archival workflow
type ArchiveProcessor struct {
	store       Store
	fetcher     Fetcher
	cache       Cache
	screenshots Screenshotter
	mirror      Mirror
	events      chan<- storage.ReplyEvent
	logger      *slog.Logger
}

// NewArchiveProcessor creates a new archive processor. events receives one
// ReplyEvent per reply posted and may be nil.
func NewArchiveProcessor(
	logger *slog.Logger,
	store Store,
	fetcher Fetcher,
	cache Cache,
	screenshots Screenshotter,
	mirror Mirror,
	events chan<- storage.ReplyEvent,
) *ArchiveProcessor {
	return &ArchiveProcessor{
		store:       store,
		fetcher:     fetcher,
		cache:       cache,
		screenshots: screenshots,
		mirror:      mirror,
		events:      events,
		logger:      logger,
	}
}

// ProcessPost answers post once for every craigslist ad it links that was
// not answered before. A url that fails is logged and skipped; nothing is
// posted for it. The number of replies posted is returned along with the
// first failure.
func (p *ArchiveProcessor) ProcessPost(ctx context.Context, post domain.Post) (int, error) {
	urls := craigslist.ExtractURLs(post.Text)
	if len(urls) == 0 {
		return 0, nil
	}

	var (
		replied  int
		firstErr error
		seen     = make(map[string]bool)
	)
	for _, url := range urls {
		postID, err := craigslist.PostID(url)
		if err != nil {
			p.logger.Warn("Skipping url without post id", "thing", post.FullID, "url", url, "err", err)
			firstErr = firstOf(firstErr, err)
			continue
		}
		if seen[postID] {
			continue
		}
		seen[postID] = true

		ok, err := p.processURL(ctx, post, url, postID)
		if err != nil {
			p.logger.Error("Failed to archive ad", "thing", post.FullID, "url", url, "post_id", postID, "err", err)
			firstErr = firstOf(firstErr, err)
			continue
		}
		if ok {
			replied++
		}
	}
	return replied, firstErr
}

func (p *ArchiveProcessor) processURL(ctx context.Context, post domain.Post, url, postID string) (bool, error) {
	if post.ReadOnly() {
		p.logger.Debug("Post cannot be answered, skipping", "thing", post.FullID, "post_id", postID)
		return false, nil
	}

	done, err := p.store.HasReplied(ctx, post.FullID, postID)
	if err != nil {
		return false, err
	}
	if done {
		p.logger.Debug("Already replied, skipping", "thing", post.FullID, "post_id", postID)
		return false, nil
	}

	archive, archiveID, err := p.ArchiveURL(ctx, url, postID)
	if err != nil {
		return false, err
	}

	text, err := reply.Format(archive)
	if err != nil {
		return false, err
	}
	if err := post.Reply(ctx, text); err != nil {
		return false, err
	}
	p.logger.Info("Replied with archive", "thing", post.FullID, "sub", post.Subreddit, "post_id", postID, "album", archive.URL)

	if p.events != nil {
		select {
		case p.events <- storage.ReplyEvent{Post: post, PostID: postID, ArchiveID: archiveID}:
		case <-ctx.Done():
			return true, ctx.Err()
		}
	}
	return true, nil
}

// ArchiveURL returns the stored archive of the ad with postID, creating and
// storing one from url when there is none yet. The page must carry the same
// post id as the url, since archives are stored under the page's id.
func (p *ArchiveProcessor) ArchiveURL(ctx context.Context, url, postID string) (*domain.Archive, uint, error) {
	archive, id, err := p.store.FindArchiveByPostID(ctx, postID)
	if err == nil {
		p.logger.Debug("Reusing archive", "post_id", postID, "album", archive.URL)
		return archive, id, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, 0, err
	}

	ad, page, err := p.scrape(ctx, url)
	if err != nil {
		return nil, 0, err
	}
	if ad.PostID != postID {
		return nil, 0, errors.Wrapf(domain.ErrInvalidIdentifier,
			"url %s names post %s but the page is post %s", url, postID, ad.PostID)
	}

	archive, err = p.mirrorAd(ctx, ad, page)
	if err != nil {
		return nil, 0, err
	}

	id, err = p.store.SaveArchive(ctx, archive)
	if err != nil {
		return nil, 0, err
	}
	return archive, id, nil
}

// Build archives the ad at url without consulting or writing the store:
// fetch, scrape, cache, screenshot, then mirror.
func (p *ArchiveProcessor) Build(ctx context.Context, url string) (*domain.Archive, error) {
	ad, page, err := p.scrape(ctx, url)
	if err != nil {
		return nil, err
	}
	return p.mirrorAd(ctx, ad, page)
}

func (p *ArchiveProcessor) scrape(ctx context.Context, url string) (*domain.Ad, string, error) {
	page, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, "", err
	}

	ad, err := craigslist.Scrape(page)
	if err != nil {
		return nil, "", errors.Wrapf(err, "scrape %s", url)
	}
	return ad, page, nil
}

// mirrorAd caches, screenshots and mirrors ad. The archive it returns can
// always be rendered as a reply.
func (p *ArchiveProcessor) mirrorAd(ctx context.Context, ad *domain.Ad, page string) (*domain.Archive, error) {
	entry, err := p.cache.Store(ctx, ad, page)
	if err != nil {
		return nil, err
	}

	screenshot := filepath.Join(entry.Dir, ScreenshotName)
	if err := p.screenshots.Capture(ctx, entry.Snapshot, screenshot); err != nil {
		return nil, err
	}

	archive, err := p.mirror.Create(ctx, ad, screenshot, entry.Ad.Images())
	if err != nil {
		return nil, err
	}
	if _, err := reply.Format(archive); err != nil {
		return nil, errors.Wrapf(err, "archive of ad %s", ad.PostID)
	}

	p.logger.Info("Archived ad", "post_id", ad.PostID, "images", len(ad.Images()), "album", archive.URL)
	return archive, nil
}

func firstOf(current, err error) error {
	if current != nil {
		return current
	}
	return err
}
