package domain

import (
	"regexp"

	"github.com/pkg/errors"
)

// Variant selects where the images of an Ad are expected to live.
type Variant int

const (
	// Remote ads point at images hosted on craigslist.
	Remote Variant = iota
	// Cached ads point at images downloaded to the local filesystem.
	Cached
)

var imagePathRegex = map[Variant]*regexp.Regexp{
	Remote: regexp.MustCompile(`^https://images\.craigslist\.org/\w+\.jpg$`),
	Cached: regexp.MustCompile(`^/[\./\w]+\.jpg$`),
}

func (v Variant) String() string {
	switch v {
	case Remote:
		return "remote"
	case Cached:
		return "cached"
	default:
		return "unknown"
	}
}

// ParseVariant is the inverse of String.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "remote":
		return Remote, nil
	case "cached":
		return Cached, nil
	}
	return 0, errors.Errorf("unknown ad variant %q", s)
}

// ValidImagePath reports whether p has the shape images of this variant must have.
func (v Variant) ValidImagePath(p string) bool {
	re, ok := imagePathRegex[v]
	return ok && re.MatchString(p)
}

func (v Variant) validate(images []string) error {
	for _, img := range images {
		if !v.ValidImagePath(img) {
			return errors.Wrapf(ErrInvalidImagePath, "%s ad image %q", v, img)
		}
	}
	return nil
}

// Ad is a craigslist listing, either live on the site or cached locally.
type Ad struct {
	PostID string
	URL    string
	Title  string
	Body   string

	variant Variant
	images  []string
}

// NewAd builds an Ad of the given variant. Every image must satisfy the
// variant's path shape.
func NewAd(variant Variant, postID, url, title, body string, images []string) (*Ad, error) {
	ad := &Ad{
		PostID:  postID,
		URL:     url,
		Title:   title,
		Body:    body,
		variant: variant,
		images:  []string{},
	}
	if err := ad.SetImages(images); err != nil {
		return nil, err
	}
	return ad, nil
}

// Variant returns the variant the Ad was built with.
func (a *Ad) Variant() Variant {
	return a.variant
}

// Images returns a copy of the image locators.
func (a *Ad) Images() []string {
	return append([]string{}, a.images...)
}

// SetImages replaces the image list. Nothing is assigned unless every entry is
// valid for the Ad's variant.
func (a *Ad) SetImages(images []string) error {
	if err := a.variant.validate(images); err != nil {
		return err
	}
	a.images = append([]string{}, images...)
	return nil
}
