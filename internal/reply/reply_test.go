package reply

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

const goldenReply = `Craigslist ads get deleted once they expire, so here is a copy of the one linked above.

[original post](http://indianapolis.craigslist.org/bar/d/bears/6451661128.html) | [imgur album](https://imgur.com/a/zzzz1) | [screenshot](https://i.imgur.com/abcd000.jpg)

> ### Post title
>
> Post description line 1.
>
> Post description line 2.
>
> [image 1](https://i.imgur.com/abcd001.jpg) | [image 2](https://i.imgur.com/abcd002.jpg) | [image 3](https://i.imgur.com/abcd003.jpg)

---

^(I am a bot. The ad text is quoted above and its images are mirrored to imgur.)`

func fixture(t *testing.T, images []string) *domain.Archive {
	t.Helper()
	ad, err := domain.NewAd(domain.Remote, "6451661128",
		"http://indianapolis.craigslist.org/bar/d/bears/6451661128.html",
		"Post title",
		"Post description line 1.\n\nPost description line 2.",
		nil)
	require.NoError(t, err)
	return domain.NewArchive("https://imgur.com/a/zzzz1", "xxx", ad, "https://i.imgur.com/abcd000.jpg", images)
}

var threeImages = []string{
	"https://i.imgur.com/abcd001.jpg",
	"https://i.imgur.com/abcd002.jpg",
	"https://i.imgur.com/abcd003.jpg",
}

func TestFormat_Golden(t *testing.T) {
	got, err := Format(fixture(t, threeImages))
	require.NoError(t, err)
	assert.Equal(t, goldenReply, got)
}

func TestFormat_Deterministic(t *testing.T) {
	archive := fixture(t, threeImages)
	first, err := Format(archive)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Format(archive)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFormat_ImageLine(t *testing.T) {
	got, err := Format(fixture(t, threeImages))
	require.NoError(t, err)
	assert.Contains(t, got, "> [image 1](https://i.imgur.com/abcd001.jpg) | [image 2](https://i.imgur.com/abcd002.jpg) | [image 3](https://i.imgur.com/abcd003.jpg)\n")
}

func TestFormat_NoImages(t *testing.T) {
	got, err := Format(fixture(t, nil))
	require.NoError(t, err)

	assert.NotContains(t, got, "[image")
	assert.Contains(t, got, "> Post description line 2.\n\n---")
	assert.NotContains(t, got, ">\n\n---", "no trailing quote line")
	assert.NotContains(t, got, " | \n")
}

func TestFormat_NoTrailingWhitespaceInQuote(t *testing.T) {
	got, err := Format(fixture(t, threeImages))
	require.NoError(t, err)
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, ">") {
			assert.NotEqual(t, "> ", line)
			assert.Equal(t, strings.TrimRight(line, " "), line)
		}
	}
}

func TestFormat_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *domain.Archive)
		field  string
	}{
		{"title", func(a *domain.Archive) { a.Ad.Title = "" }, "ad.title"},
		{"ad url", func(a *domain.Archive) { a.Ad.URL = "" }, "ad.url"},
		{"body", func(a *domain.Archive) { a.Ad.Body = "" }, "ad.body"},
		{"album url", func(a *domain.Archive) { a.URL = "" }, "archive.url"},
		{"screenshot", func(a *domain.Archive) { a.Screenshot = "" }, "archive.screenshot"},
		{"ad", func(a *domain.Archive) { a.Ad = nil }, "archive.ad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := fixture(t, threeImages)
			tt.mutate(archive)
			got, err := Format(archive)
			require.Error(t, err)
			assert.Empty(t, got)
			assert.True(t, errors.Is(err, domain.ErrMissingField))
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	_, err := Format(nil)
	assert.True(t, errors.Is(err, domain.ErrMissingField))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "> a\n>\n> b", quote("a\n\nb"))
	assert.Equal(t, ">", quote(""))
	assert.Equal(t, ">  indented", quote(" indented"))
}
