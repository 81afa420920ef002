package collector

import (
	"context"
	"strings"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// RedditClient is an authenticated script app. It reads new submissions with
// their comment trees and can reply to either.
type RedditClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

// NewClient logs in as a script app. Reddit rejects requests without a
// descriptive userAgent.
func NewClient(id, secret, user, pass, userAgent string) (*RedditClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create reddit client")
	}

	// Rate Limit: Token Bucket Algorithm
	// 100 requests / 10 mins = ~1 request every 600ms
	limiter := rate.NewLimiter(rate.Every(600*time.Millisecond), 1)

	return &RedditClient{client: client, limiter: limiter}, nil
}

// FetchNewPosts returns the newest submissions of sub, each followed by the
// comments posted under it.
func (rc *RedditClient) FetchNewPosts(ctx context.Context, sub string, limit int) ([]domain.Post, error) {
	// Wait for token
	if err := rc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	posts, _, err := rc.client.Subreddit.NewPosts(ctx, sub, &reddit.ListOptions{Limit: limit})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list new posts of r/%s", sub)
	}

	var result []domain.Post
	for _, p := range posts {
		result = append(result, fromSubmission(p, rc))
		if p.NumberOfComments == 0 {
			continue
		}

		comments, err := rc.comments(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, comments...)
	}
	return result, nil
}

func (rc *RedditClient) comments(ctx context.Context, postID string) ([]domain.Post, error) {
	if err := rc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	thread, _, err := rc.client.Post.Get(ctx, postID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load comments of %s", postID)
	}
	return flattenComments(thread.Comments, rc), nil
}

// Reply posts text as a comment under the submission or comment parentFullID.
func (rc *RedditClient) Reply(ctx context.Context, parentFullID, text string) error {
	if err := rc.limiter.Wait(ctx); err != nil {
		return err
	}

	if _, _, err := rc.client.Comment.Submit(ctx, parentFullID, text); err != nil {
		return errors.Wrapf(err, "failed to reply to %s", parentFullID)
	}
	return nil
}

// Link posts carry the ad in their url, self posts in their body.
func fromSubmission(p *reddit.Post, replier domain.Replier) domain.Post {
	parts := []string{p.Title}
	if p.Body != "" {
		parts = append(parts, p.Body)
	}
	if !p.IsSelfPost && p.URL != "" {
		parts = append(parts, p.URL)
	}

	return domain.NewPost(domain.Submission, p.ID, p.FullID, p.SubredditName, p.Author, p.Permalink,
		strings.Join(parts, "\n\n"), replier)
}

func fromComment(c *reddit.Comment, replier domain.Replier) domain.Post {
	return domain.NewPost(domain.Comment, c.ID, c.FullID, c.SubredditName, c.Author, c.Permalink, c.Body, replier)
}

// flattenComments walks the comment tree depth first.
func flattenComments(comments []*reddit.Comment, replier domain.Replier) []domain.Post {
	var result []domain.Post
	for _, c := range comments {
		if c == nil {
			continue
		}
		result = append(result, fromComment(c, replier))
		result = append(result, flattenComments(c.Replies.Comments, replier)...)
	}
	return result
}
