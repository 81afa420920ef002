package mirror

import (
	"context"
	"net/url"
	"path/filepath"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// Local is a mirror that uploads nothing. Its archives point at the cached
// files, which is enough to preview a reply.
type Local struct {
	// Dir stands in for the album.
	Dir string
}

// Create returns an archive of file urls.
func (m Local) Create(_ context.Context, ad *domain.Ad, screenshot string, images []string) (*domain.Archive, error) {
	links := make([]string, 0, len(images))
	for _, img := range images {
		links = append(links, FileURL(img))
	}
	return domain.NewArchive(FileURL(m.Dir), domain.ArchiveTitle(ad.PostID), ad, FileURL(screenshot), links), nil
}

// FileURL turns a local path into a file:// url.
func FileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
