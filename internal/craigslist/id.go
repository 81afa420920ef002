package craigslist

import (
	"regexp"

	"github.com/pkg/errors"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

var postIDRegex = regexp.MustCompile(`\d{10}`)

// PostID returns the first run of ten digits in s, which is how craigslist
// numbers its posts both in urls and in the "post id" line of a page.
func PostID(s string) (string, error) {
	id := postIDRegex.FindString(s)
	if id == "" {
		return "", errors.Wrapf(domain.ErrInvalidIdentifier, "could not extract id from %q", s)
	}
	return id, nil
}
