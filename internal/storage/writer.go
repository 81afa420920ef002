package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// ReplyEvent is sent once a reply has been posted for an archived ad.
type ReplyEvent struct {
	Post      domain.Post
	PostID    string
	ArchiveID uint
}

// WriterService implements the Monitor Pattern for thread safety: workers
// hand reply events over a channel and a single goroutine writes them, which
// keeps sqlite to one writer.
type WriterService struct {
	Store  *Store
	Logger *slog.Logger
}

func (w *WriterService) Start(wg *sync.WaitGroup, input <-chan ReplyEvent) {
	defer wg.Done()

	for ev := range input {
		if err := w.Store.RecordReply(context.Background(), ev.Post, ev.PostID, ev.ArchiveID); err != nil {
			w.Logger.Error("Failed to record reply", "thing", ev.Post.FullID, "post_id", ev.PostID, "err", err)
		}
	}
}
