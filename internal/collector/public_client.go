package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

const publicBaseURL = "https://www.reddit.com"

// PublicClient reads the public JSON listings. It needs no credentials but
// cannot post, so its posts are read-only.
type PublicClient struct {
	http    *resty.Client
	limiter *rate.Limiter
}

type redditJSONResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				ID        string `json:"id"`
				Name      string `json:"name"`
				Title     string `json:"title"`
				SelfText  string `json:"selftext"`
				IsSelf    bool   `json:"is_self"`
				Subreddit string `json:"subreddit"`
				Author    string `json:"author"`
				URL       string `json:"url"`
				Permalink string `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(userAgent string) (*PublicClient, error) {
	if userAgent == "" {
		return nil, errors.New("a user agent is required for public access")
	}

	client := resty.New()
	client.SetBaseURL(publicBaseURL)
	client.SetHeader("User-Agent", userAgent)
	client.SetTimeout(10 * time.Second)

	return &PublicClient{
		http: client,
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}, nil
}

// FetchNewPosts returns the newest submissions of sub. Comments are not read.
func (pc *PublicClient) FetchNewPosts(ctx context.Context, sub string, limit int) ([]domain.Post, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var rResp redditJSONResponse
	res, err := pc.http.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprint(limit)).
		SetResult(&rResp).
		Get(fmt.Sprintf("/r/%s/new.json", sub))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list new posts of r/%s", sub)
	}
	if res.StatusCode() != 200 {
		return nil, errors.Errorf("reddit public access status: %d", res.StatusCode())
	}

	var posts []domain.Post
	for _, child := range rResp.Data.Children {
		d := child.Data
		parts := []string{d.Title}
		if d.SelfText != "" {
			parts = append(parts, d.SelfText)
		}
		if !d.IsSelf && d.URL != "" {
			parts = append(parts, d.URL)
		}
		posts = append(posts, domain.NewPost(domain.Submission, d.ID, d.Name, d.Subreddit, d.Author, d.Permalink,
			strings.Join(parts, "\n\n"), nil))
	}
	return posts, nil
}
