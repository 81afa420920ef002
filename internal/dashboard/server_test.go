package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/reddit-archivebot/internal/storage"
)

type fakeSource struct {
	replies  []storage.ReplyRecord
	archives []storage.ArchiveRecord
	err      error
	limit    int
}

func (f *fakeSource) Replies(context.Context) ([]storage.ReplyRecord, error) {
	return f.replies, f.err
}

func (f *fakeSource) Archives(_ context.Context, limit int) ([]storage.ArchiveRecord, error) {
	f.limit = limit
	return f.archives, f.err
}

func newSource() *fakeSource {
	day := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	return &fakeSource{
		replies: []storage.ReplyRecord{
			{FullID: "t1_a", Subreddit: "indianapolis"},
			{FullID: "t1_b", Subreddit: "indianapolis"},
			{FullID: "t3_c", Subreddit: "chicago"},
		},
		archives: []storage.ArchiveRecord{{
			ID:         3,
			URL:        "https://imgur.com/a/zzzz1",
			Screenshot: "https://i.imgur.com/abcd000.jpg",
			Images:     storage.ImageList{"https://i.imgur.com/abcd001.jpg", "https://i.imgur.com/abcd002.jpg"},
			CreatedAt:  day,
			Ad: storage.AdRecord{
				PostID: "6451661128",
				Title:  "Two gently used bears",
				URL:    "https://indianapolis.craigslist.org/bar/d/bears/6451661128.html",
			},
		}},
	}
}

func newApp(src Source) *fiber.App {
	return New(src, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestIndex(t *testing.T) {
	app := newApp(newSource())

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, fiber.MIMETextHTMLCharsetUTF8, resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Replies per Subreddit")
	assert.Contains(t, string(body), "Archives per Day")
	assert.Contains(t, string(body), "2026-10-17")
	assert.Contains(t, string(body), "indianapolis")
}

func TestListArchives(t *testing.T) {
	src := newSource()
	app := newApp(src)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/archives?limit=5", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, src.limit)

	var views []ArchiveView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, uint(3), views[0].ID)
	assert.Equal(t, "6451661128", views[0].PostID)
	assert.Equal(t, "https://imgur.com/a/zzzz1", views[0].AlbumURL)
	assert.Equal(t, 2, views[0].Images)
}

func TestListArchives_DefaultAndBadLimit(t *testing.T) {
	src := newSource()
	app := newApp(src)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/archives", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, defaultArchiveLimit, src.limit)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/archives?limit=0", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStoreFailure(t *testing.T) {
	src := newSource()
	src.err = errors.New("database is locked")
	app := newApp(src)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/archives", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "database is locked", body["error"])
}

func TestArchiveBar_SortsDays(t *testing.T) {
	archives := []storage.ArchiveRecord{
		{CreatedAt: time.Date(2026, 10, 18, 1, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 10, 16, 1, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 10, 18, 2, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, []string{"2026-10-16", "2026-10-18"}, sortedKeys(map[string]int{"2026-10-18": 2, "2026-10-16": 1}))
	assert.NotNil(t, archiveBar(archives))
}
