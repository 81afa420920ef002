package cache

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

const page = `<html><head><title>bears</title></head><body><p>Two gently used bears.</p></body></html>`

var remoteImages = []string{
	"https://images.craigslist.org/00303_hvg2dCTqGMm_600x450.jpg",
	"https://images.craigslist.org/00d0d_faugXYQcX9f_600x450.jpg",
}

// routeTo sends every request of the cache's http client to server, whatever
// host the url names.
func routeTo(c *Cache, server *httptest.Server) {
	c.http.SetTransport(&http.Transport{
		DialContext: func(ctx context.Context, network, _ string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(ctx, network, server.Listener.Addr().String())
		},
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	})
}

func newRemoteAd(t *testing.T) *domain.Ad {
	t.Helper()
	ad, err := domain.NewAd(domain.Remote, "6451661128",
		"https://indianapolis.craigslist.org/bar/d/bears/6451661128.html",
		"Two gently used bears", "Pick up only.", remoteImages)
	require.NoError(t, err)
	return ad
}

func tempCacheDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "archivebot_test_")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

func TestNew_RejectsUnusableDir(t *testing.T) {
	_, err := New("/tmp/archive-bot", time.Second)
	assert.Error(t, err)

	c, err := New("/tmp/archivebot", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/archivebot", c.Dir())
}

func TestStore(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg:" + r.URL.Path))
	}))
	defer server.Close()

	c, err := New(tempCacheDir(t), 10*time.Second)
	require.NoError(t, err)
	routeTo(c, server)

	entry, err := c.Store(context.Background(), newRemoteAd(t), page)
	require.NoError(t, err)

	assert.Equal(t, domain.Cached, entry.Ad.Variant())
	assert.Equal(t, []string{
		filepath.Join(c.Dir(), "6451661128", "00303_hvg2dCTqGMm_600x450.jpg"),
		filepath.Join(c.Dir(), "6451661128", "00d0d_faugXYQcX9f_600x450.jpg"),
	}, entry.Ad.Images())
	assert.Equal(t, "6451661128", entry.Ad.PostID)

	data, err := os.ReadFile(entry.Ad.Images()[0])
	require.NoError(t, err)
	assert.Equal(t, "jpeg:/00303_hvg2dCTqGMm_600x450.jpg", string(data))

	snapshot, err := os.ReadFile(entry.Snapshot)
	require.NoError(t, err)
	assert.Contains(t, string(snapshot), "Two gently used bears.")
}

func TestStore_ImageDownloadFails(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c, err := New(tempCacheDir(t), 10*time.Second)
	require.NoError(t, err)
	routeTo(c, server)

	_, err = c.Store(context.Background(), newRemoteAd(t), page)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.NoFileExists(t, filepath.Join(c.Dir(), "6451661128", "00303_hvg2dCTqGMm_600x450.jpg"))
}
