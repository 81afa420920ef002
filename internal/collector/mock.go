package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// mockNamespace seeds the mock ids so every run produces the same posts.
var mockNamespace = uuid.MustParse("6f1c0a52-8d6e-4a0b-9a8e-2b0d3f6c7e11")

// MockReply is a reply the mock received.
type MockReply struct {
	ParentFullID string
	Text         string
}

// MockClient implements domain.Collector with fake posts that link to
// craigslist ads, and remembers what was replied to them.
type MockClient struct {
	// Latency is waited before each fetch, which makes worker concurrency visible.
	Latency time.Duration

	mu      sync.Mutex
	replies []MockReply
}

func NewMockClient() *MockClient {
	return &MockClient{Latency: 500 * time.Millisecond}
}

// FetchNewPosts returns limit posts for sub, alternating submissions and
// comments. Every third post has no ad link.
func (mc *MockClient) FetchNewPosts(ctx context.Context, sub string, limit int) ([]domain.Post, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(mc.Latency):
	}

	posts := make([]domain.Post, 0, limit)
	for i := 0; i < limit; i++ {
		id := uuid.NewSHA1(mockNamespace, []byte(fmt.Sprintf("%s/%d", sub, i))).String()[:7]

		text := fmt.Sprintf("Anyone seen this? https://indianapolis.craigslist.org/bar/d/mock-%d/%010d.html", i, 6451661128+int64(i))
		if i%3 == 2 {
			text = "Nothing to archive here."
		}

		kind, prefix := domain.Submission, "t3_"
		if i%2 == 1 {
			kind, prefix = domain.Comment, "t1_"
		}

		posts = append(posts, domain.NewPost(kind, id, prefix+id, sub, "simulated_user",
			fmt.Sprintf("/r/%s/comments/%s/", sub, id), text, mc))
	}
	return posts, nil
}

// Reply records the reply.
func (mc *MockClient) Reply(_ context.Context, parentFullID, text string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.replies = append(mc.replies, MockReply{ParentFullID: parentFullID, Text: text})
	return nil
}

// Replies returns the replies received so far.
func (mc *MockClient) Replies() []MockReply {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return append([]MockReply{}, mc.replies...)
}
