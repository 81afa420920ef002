// Package cache keeps a local copy of an ad: its images and a single-file
// snapshot of the page.
package cache

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/obelisk"
	"github.com/pkg/errors"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// SnapshotName is the file the page snapshot is written to inside an ad's directory.
const SnapshotName = "snapshot.html"

// Cached image paths may only contain word characters, dots and slashes.
var dirRegex = regexp.MustCompile(`^/[\./\w]*$`)

// Entry is a cached ad.
type Entry struct {
	// Ad is the Cached variant of the scraped ad.
	Ad *domain.Ad
	// Dir holds the downloaded images and the snapshot.
	Dir string
	// Snapshot is the path of the page snapshot with all resources inlined.
	Snapshot string
}

// Cache stores ads under a root directory, one directory per post id.
type Cache struct {
	dir     string
	http    *resty.Client
	timeout time.Duration
}

// New creates a Cache rooted at dir.
func New(dir string, timeout time.Duration) (*Cache, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve cache dir %s", dir)
	}
	if !dirRegex.MatchString(abs) {
		return nil, errors.Errorf("cache dir %s may only contain letters, digits, '_', '.' and '/'", abs)
	}

	client := resty.New()
	client.SetTimeout(timeout)

	return &Cache{
		dir:     abs,
		http:    client,
		timeout: timeout,
	}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Store downloads the images of a Remote ad and snapshots page, the html it
// was scraped from.
func (c *Cache) Store(ctx context.Context, ad *domain.Ad, page string) (*Entry, error) {
	dir := filepath.Join(c.dir, ad.PostID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache dir %s", dir)
	}

	images := ad.Images()
	local := make([]string, 0, len(images))
	for _, img := range images {
		dest := filepath.Join(dir, path.Base(img))
		if err := c.download(ctx, img, dest); err != nil {
			return nil, err
		}
		local = append(local, dest)
	}

	cached, err := domain.NewAd(domain.Cached, ad.PostID, ad.URL, ad.Title, ad.Body, local)
	if err != nil {
		return nil, errors.Wrapf(err, "cached ad %s", ad.PostID)
	}

	snapshot := filepath.Join(dir, SnapshotName)
	if err := c.snapshot(ctx, ad.URL, page, snapshot); err != nil {
		return nil, err
	}

	return &Entry{Ad: cached, Dir: dir, Snapshot: snapshot}, nil
}

func (c *Cache) download(ctx context.Context, url, dest string) error {
	res, err := c.http.R().SetContext(ctx).SetOutput(dest).Get(url)
	if err != nil {
		return errors.Wrapf(err, "failed to download image %s", url)
	}
	if res.IsError() {
		_ = os.Remove(dest)
		return errors.Errorf("download of image %s failed with status %d", url, res.StatusCode())
	}
	return nil
}

// snapshot inlines the page's stylesheets and images with obelisk. Scripts are
// dropped so the snapshot renders the same offline.
func (c *Cache) snapshot(ctx context.Context, url, page, dest string) error {
	archiver := &obelisk.Archiver{
		RequestTimeout:        c.timeout,
		MaxConcurrentDownload: 4,
		DisableJS:             true,
		SkipResourceURLError:  true,
	}
	archiver.Validate()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, _, err := archiver.Archive(ctx, obelisk.Request{
		URL:   url,
		Input: strings.NewReader(page),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to snapshot %s", url)
	}
	if len(data) == 0 {
		return errors.Errorf("empty snapshot for %s", url)
	}

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write snapshot %s", dest)
	}
	return nil
}
