package domain

import (
	"context"

	"github.com/pkg/errors"
)

// Target represents a subreddit to watch
type Target struct {
	Subreddit string
	Limit     int
}

// PostKind tells submissions and comments apart.
type PostKind int

const (
	Submission PostKind = iota
	Comment
)

func (k PostKind) String() string {
	if k == Comment {
		return "comment"
	}
	return "submission"
}

// Replier posts a markdown reply under the thing with the given fullname.
type Replier interface {
	Reply(ctx context.Context, parentFullID, text string) error
}

// Post is a reddit submission or comment reduced to what the bot needs: the
// text to scan for ads and a way to answer it.
type Post struct {
	Kind      PostKind
	ID        string
	FullID    string
	Subreddit string
	Author    string
	Permalink string
	Text      string

	replier Replier
}

// NewPost builds a Post. A nil replier makes the post read-only.
func NewPost(kind PostKind, id, fullID, subreddit, author, permalink, text string, replier Replier) Post {
	return Post{
		Kind:      kind,
		ID:        id,
		FullID:    fullID,
		Subreddit: subreddit,
		Author:    author,
		Permalink: permalink,
		Text:      text,
		replier:   replier,
	}
}

// ReadOnly reports whether the post cannot be answered.
func (p Post) ReadOnly() bool {
	return p.replier == nil
}

// Reply answers the post with markdown text.
func (p Post) Reply(ctx context.Context, text string) error {
	if p.replier == nil {
		return errors.Wrapf(ErrReadOnly, "reply to %s", p.FullID)
	}
	return p.replier.Reply(ctx, p.FullID, text)
}

// Collector defines the interface for data fetching
type Collector interface {
	FetchNewPosts(ctx context.Context, subreddit string, limit int) ([]Post, error)
}
