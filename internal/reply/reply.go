// Package reply renders an archived ad as a reddit markdown comment.
package reply

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// Format renders archive into the reply posted under the post that linked the ad.
// Output is deterministic for a given archive.
func Format(archive *domain.Archive) (string, error) {
	if err := checkFields(archive); err != nil {
		return "", err
	}
	ad := archive.Ad

	parts := []string{"### " + ad.Title, ad.Body}
	if links := imageLinks(archive.Images()); links != "" {
		parts = append(parts, links)
	}

	r := strings.NewReplacer(
		originalPlaceholder, ad.URL,
		albumPlaceholder, archive.URL,
		screenshotPlaceholder, archive.Screenshot,
		quotePlaceholder, quote(strings.Join(parts, "\n\n")),
	)
	return r.Replace(replyTemplate), nil
}

func checkFields(archive *domain.Archive) error {
	if archive == nil {
		return errors.Wrap(domain.ErrMissingField, "archive")
	}
	if archive.Ad == nil {
		return errors.Wrap(domain.ErrMissingField, "archive.ad")
	}
	fields := []struct{ name, value string }{
		{"ad.title", archive.Ad.Title},
		{"ad.url", archive.Ad.URL},
		{"ad.body", archive.Ad.Body},
		{"archive.url", archive.URL},
		{"archive.screenshot", archive.Screenshot},
	}
	for _, f := range fields {
		if f.value == "" {
			return errors.Wrap(domain.ErrMissingField, f.name)
		}
	}
	return nil
}

func imageLinks(images []string) string {
	links := make([]string, len(images))
	for i, img := range images {
		links[i] = fmt.Sprintf("[image %d](%s)", i+1, img)
	}
	return strings.Join(links, " | ")
}

// quote turns text into a markdown block quote. Blank lines become a bare ">"
// so no line ends in trailing whitespace.
func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}
