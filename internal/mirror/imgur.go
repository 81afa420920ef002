// Package mirror copies an ad's images to a host that outlives the ad.
package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

const (
	imgurAPI      = "https://api.imgur.com/3"
	imgurAlbumURL = "https://imgur.com/a/"
)

type imgurAlbum struct {
	Data struct {
		ID         string `json:"id"`
		DeleteHash string `json:"deletehash"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

type imgurImage struct {
	Data struct {
		ID   string `json:"id"`
		Link string `json:"link"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// Imgur mirrors ads into anonymous, hidden imgur albums.
type Imgur struct {
	http *resty.Client
}

// NewImgur creates an Imgur mirror for the registered application clientID.
func NewImgur(clientID string, timeout time.Duration) *Imgur {
	client := resty.New()
	client.SetBaseURL(imgurAPI)
	client.SetHeader("Authorization", "Client-ID "+clientID)
	client.SetTimeout(timeout)
	return &Imgur{http: client}
}

// Create uploads screenshot and then images, in order, to a new album titled
// after ad. Both are local file paths.
func (m *Imgur) Create(ctx context.Context, ad *domain.Ad, screenshot string, images []string) (*domain.Archive, error) {
	title := domain.ArchiveTitle(ad.PostID)

	var album imgurAlbum
	res, err := m.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"title":   title,
			"privacy": "hidden",
		}).
		SetResult(&album).
		Post("/album")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create album for ad %s", ad.PostID)
	}
	if res.IsError() || album.Data.ID == "" {
		return nil, errors.Errorf("imgur refused album for ad %s: status %d", ad.PostID, res.StatusCode())
	}

	shot, err := m.upload(ctx, album.Data.DeleteHash, title+" screenshot", screenshot)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0, len(images))
	for i, img := range images {
		link, err := m.upload(ctx, album.Data.DeleteHash, fmt.Sprintf("%s image %d", title, i+1), img)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return domain.NewArchive(imgurAlbumURL+album.Data.ID, title, ad, shot, links), nil
}

func (m *Imgur) upload(ctx context.Context, albumHash, title, file string) (string, error) {
	var image imgurImage
	res, err := m.http.R().
		SetContext(ctx).
		SetFile("image", file).
		SetFormData(map[string]string{
			"album": albumHash,
			"title": title,
			"type":  "file",
		}).
		SetResult(&image).
		Post("/image")
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s", file)
	}
	if res.IsError() || image.Data.Link == "" {
		return "", errors.Errorf("imgur refused %s: status %d", file, res.StatusCode())
	}
	return image.Data.Link, nil
}
