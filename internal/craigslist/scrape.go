package craigslist

import (
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// ImageResolution marks the image size kept from an ad page. Craigslist links
// thumbnails, the 600x450 gallery image and the full size image for each photo.
const ImageResolution = "600x450"

// The posting body starts with a whitespace node and the print-only QR code
// block before the author's text.
const leadingBodyNodes = 2

var converter = md.NewConverter("", true, nil)

// Scrape parses the raw html of an ad page into a Remote Ad.
func Scrape(page string) (*domain.Ad, error) {
	return ScrapeReader(strings.NewReader(page))
}

// ScrapeReader is Scrape over a reader.
func ScrapeReader(r io.Reader) (*domain.Ad, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ad page")
	}

	postID, err := scrapePostID(doc)
	if err != nil {
		return nil, err
	}

	url, err := scrapeCanonicalURL(doc)
	if err != nil {
		return nil, err
	}

	body, err := scrapeBody(doc)
	if err != nil {
		return nil, err
	}

	title, err := scrapeTitle(doc)
	if err != nil {
		return nil, err
	}

	ad, err := domain.NewAd(domain.Remote, postID, url, title, body, scrapeImages(doc))
	if err != nil {
		return nil, errors.Wrapf(err, "scraped ad %s", postID)
	}
	return ad, nil
}

// scrapePostID reads the id from the second posting info block. The first one
// is the hover-reveal copy rendered ahead of it.
func scrapePostID(doc *goquery.Document) (string, error) {
	blocks := doc.Find(".postinginfos")
	if blocks.Length() < 2 {
		return "", errors.Wrapf(domain.ErrPageStructure, "found %d posting info blocks, want 2", blocks.Length())
	}
	id, err := PostID(blocks.Eq(1).Text())
	if err != nil {
		return "", errors.Wrap(err, "posting info block")
	}
	return id, nil
}

func scrapeCanonicalURL(doc *goquery.Document) (string, error) {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok || href == "" {
		return "", errors.Wrap(domain.ErrPageStructure, "missing canonical link")
	}
	return href, nil
}

func scrapeTitle(doc *goquery.Document) (string, error) {
	if title := strings.TrimSpace(doc.Find("#titletextonly").First().Text()); title != "" {
		return title, nil
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title, nil
	}
	return "", errors.Wrap(domain.ErrPageStructure, "missing title")
}

func scrapeBody(doc *goquery.Document) (string, error) {
	section := doc.Find("#postingbody").First()
	if section.Length() == 0 {
		return "", errors.Wrap(domain.ErrPageStructure, "missing posting body")
	}

	var raw strings.Builder
	for i, node := range section.Contents().Nodes {
		if i < leadingBodyNodes {
			continue
		}
		if err := html.Render(&raw, node); err != nil {
			return "", errors.Wrap(err, "failed to render posting body")
		}
	}

	body, err := converter.ConvertString(raw.String())
	if err != nil {
		return "", errors.Wrap(err, "failed to convert posting body")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", errors.Wrap(domain.ErrPageStructure, "empty posting body")
	}
	return body, nil
}

// scrapeImages pools every link target and image source on the page and keeps
// each ImageResolution url once, in the order first seen.
func scrapeImages(doc *goquery.Document) []string {
	var pool []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			pool = append(pool, href)
		}
	})
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			pool = append(pool, src)
		}
	})

	images := []string{}
	seen := make(map[string]bool)
	for _, u := range pool {
		if !strings.Contains(u, ImageResolution) || seen[u] {
			continue
		}
		seen[u] = true
		images = append(images, u)
	}
	return images
}
