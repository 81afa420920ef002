package domain

import "fmt"

// ArchiveTitle is the album title used for the mirror of an ad.
func ArchiveTitle(postID string) string {
	return fmt.Sprintf("reddit-cl-bot archive %s", postID)
}

// Archive is an image mirror of an Ad. The screenshot is always the first
// image of the mirror; Images keeps the order the ad images were uploaded in.
type Archive struct {
	URL        string
	Title      string
	Ad         *Ad
	Screenshot string

	images []string
}

// NewArchive builds an Archive with its own copy of images.
func NewArchive(url, title string, ad *Ad, screenshot string, images []string) *Archive {
	a := &Archive{
		URL:        url,
		Title:      title,
		Ad:         ad,
		Screenshot: screenshot,
	}
	a.SetImages(images)
	return a
}

// Images returns a copy of the mirrored image urls.
func (a *Archive) Images() []string {
	return append([]string{}, a.images...)
}

// SetImages replaces the mirrored image urls.
func (a *Archive) SetImages(images []string) {
	a.images = append([]string{}, images...)
}
