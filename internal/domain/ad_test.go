package domain

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	remoteImages = []string{
		"https://images.craigslist.org/00303_hvg2dCTqGMm_600x450.jpg",
		"https://images.craigslist.org/00d0d_faugXYQcX9f_600x450.jpg",
		"https://images.craigslist.org/00d0d_ftW9aoMNni1_600x450.jpg",
	}
	localImages = []string{
		"/tmp/00303_hvg2dCTqGMm_600x450.jpg",
		"/tmp/00d0d_faugXYQcX9f_600x450.jpg",
		"/tmp/00d0d_ftW9aoMNni1_600x450.jpg",
	}
)

func TestVariantValidImagePath(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		path    string
		want    bool
	}{
		{"remote url", Remote, remoteImages[0], true},
		{"remote rejects local path", Remote, localImages[0], false},
		{"remote rejects http", Remote, "http://images.craigslist.org/abc_600x450.jpg", false},
		{"remote rejects other host", Remote, "https://i.imgur.com/abcd001.jpg", false},
		{"remote rejects png", Remote, "https://images.craigslist.org/abc_600x450.png", false},
		{"cached path", Cached, localImages[0], true},
		{"cached nested path", Cached, "/var/tmp/archivebot/6451661128/abc.jpg", true},
		{"cached rejects url", Cached, remoteImages[0], false},
		{"cached rejects relative path", Cached, "tmp/abc.jpg", false},
		{"cached rejects hyphen", Cached, "/tmp/my-dir/abc.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.variant.ValidImagePath(tt.path))
		})
	}
}

func TestNewAd_ValidatesImages(t *testing.T) {
	ad, err := NewAd(Remote, "6451661128", "", "", "", remoteImages)
	require.NoError(t, err)
	assert.Equal(t, remoteImages, ad.Images())
	assert.Equal(t, Remote, ad.Variant())

	_, err = NewAd(Remote, "6451661128", "", "", "", localImages)
	assert.True(t, errors.Is(err, ErrInvalidImagePath))

	_, err = NewAd(Cached, "6451661128", "", "", "", remoteImages)
	assert.True(t, errors.Is(err, ErrInvalidImagePath))
}

func TestAd_SetImages(t *testing.T) {
	t.Run("remote ad rejects local images", func(t *testing.T) {
		ad, err := NewAd(Remote, "", "", "", "", remoteImages)
		require.NoError(t, err)

		err = ad.SetImages(localImages)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidImagePath))
		assert.Contains(t, err.Error(), localImages[0])
		assert.Contains(t, err.Error(), "remote")
		assert.Equal(t, remoteImages, ad.Images(), "failed assignment must leave images untouched")
	})

	t.Run("remote ad accepts remote images", func(t *testing.T) {
		ad, err := NewAd(Remote, "", "", "", "", nil)
		require.NoError(t, err)
		require.NoError(t, ad.SetImages(remoteImages))
		assert.Equal(t, remoteImages, ad.Images())
	})

	t.Run("cached ad rejects remote images", func(t *testing.T) {
		ad, err := NewAd(Cached, "", "", "", "", localImages)
		require.NoError(t, err)
		err = ad.SetImages(remoteImages)
		assert.True(t, errors.Is(err, ErrInvalidImagePath))
		assert.Equal(t, localImages, ad.Images())
	})

	t.Run("cached ad accepts local images", func(t *testing.T) {
		ad, err := NewAd(Cached, "", "", "", "", nil)
		require.NoError(t, err)
		require.NoError(t, ad.SetImages(localImages))
	})

	t.Run("one bad entry rejects the whole list", func(t *testing.T) {
		ad, err := NewAd(Remote, "", "", "", "", nil)
		require.NoError(t, err)
		mixed := append(append([]string{}, remoteImages[:2]...), localImages[2])
		assert.Error(t, ad.SetImages(mixed))
		assert.Empty(t, ad.Images())
	})
}

func TestAd_ImagesIsACopy(t *testing.T) {
	input := append([]string{}, remoteImages...)
	ad, err := NewAd(Remote, "", "", "", "", input)
	require.NoError(t, err)

	input[0] = "not a url"
	got := ad.Images()
	got[1] = "/tmp/bad.jpg"

	assert.Equal(t, remoteImages, ad.Images())
}

func TestArchive_EmptyImagesAreNotShared(t *testing.T) {
	archive := NewArchive("https://imgur.com/a/zzzz1", "xxx", nil, "https://i.imgur.com/abcd000.jpg", nil)
	archive.SetImages([]string{
		"https://i.imgur.com/abcd001.jpg",
		"https://i.imgur.com/abcd002.jpg",
		"https://i.imgur.com/abcd003.jpg",
	})
	archive2 := NewArchive("https://imgur.com/a/zzzz2", "xxx", nil, "https://i.imgur.com/abcd001.jpg", nil)

	assert.Len(t, archive.Images(), 3)
	assert.Len(t, archive2.Images(), 0)
	assert.NotNil(t, archive2.Images())
}

func TestArchiveTitle(t *testing.T) {
	assert.Equal(t, "reddit-cl-bot archive 6451661128", ArchiveTitle("6451661128"))
}

func TestParseVariant(t *testing.T) {
	for _, v := range []Variant{Remote, Cached} {
		got, err := ParseVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	_, err := ParseVariant("bogus")
	assert.Error(t, err)
}

type recordingReplier struct {
	parent, text string
}

func (r *recordingReplier) Reply(_ context.Context, parent, text string) error {
	r.parent, r.text = parent, text
	return nil
}

func TestPost_Reply(t *testing.T) {
	r := &recordingReplier{}
	post := NewPost(Comment, "abc", "t1_abc", "scams", "someone", "/r/scams/abc", "body", r)
	require.NoError(t, post.Reply(context.Background(), "hello"))
	assert.Equal(t, "t1_abc", r.parent)
	assert.Equal(t, "hello", r.text)
	assert.Equal(t, "comment", post.Kind.String())

	assert.False(t, post.ReadOnly())

	readOnly := NewPost(Submission, "xyz", "t3_xyz", "scams", "", "", "body", nil)
	assert.True(t, readOnly.ReadOnly())
	err := readOnly.Reply(context.Background(), "hello")
	assert.True(t, errors.Is(err, ErrReadOnly))
}
