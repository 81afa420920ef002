// Package dashboard serves charts of the bot's activity.
package dashboard

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/gofiber/fiber/v2"

	"github.com/qepting91/reddit-archivebot/internal/storage"
)

const defaultArchiveLimit = 50

// Source is the read side of the store.
type Source interface {
	Replies(ctx context.Context) ([]storage.ReplyRecord, error)
	Archives(ctx context.Context, limit int) ([]storage.ArchiveRecord, error)
}

// ArchiveView is an archive as listed by /api/archives.
type ArchiveView struct {
	ID         uint      `json:"id"`
	PostID     string    `json:"post_id"`
	Title      string    `json:"title"`
	AdURL      string    `json:"ad_url"`
	AlbumURL   string    `json:"album_url"`
	Screenshot string    `json:"screenshot"`
	Images     int       `json:"images"`
	CreatedAt  time.Time `json:"created_at"`
}

// New builds the dashboard app.
func New(src Source, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			logger.Error("Dashboard request failed", "path", c.Path(), "err", err)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Get("/", func(c *fiber.Ctx) error {
		replies, err := src.Replies(c.UserContext())
		if err != nil {
			return err
		}
		archives, err := src.Archives(c.UserContext(), -1)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		if err := subredditPie(replies).Render(c); err != nil {
			return err
		}
		return archiveBar(archives).Render(c)
	})

	app.Get("/api/archives", func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultArchiveLimit)
		if limit < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be positive")
		}

		records, err := src.Archives(c.UserContext(), limit)
		if err != nil {
			return err
		}

		views := make([]ArchiveView, 0, len(records))
		for _, r := range records {
			views = append(views, ArchiveView{
				ID:         r.ID,
				PostID:     r.Ad.PostID,
				Title:      r.Ad.Title,
				AdURL:      r.Ad.URL,
				AlbumURL:   r.URL,
				Screenshot: r.Screenshot,
				Images:     len(r.Images),
				CreatedAt:  r.CreatedAt,
			})
		}
		return c.JSON(views)
	})

	return app
}

// StartServer serves the dashboard on port until the listener fails.
func StartServer(src Source, port string, logger *slog.Logger) error {
	return New(src, logger).Listen(":" + port)
}

// 1. Replies per subreddit
func subredditPie(replies []storage.ReplyRecord) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Replies per Subreddit"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	subCounts := make(map[string]int)
	for _, r := range replies {
		subCounts[r.Subreddit]++
	}

	var pieItems []opts.PieData
	for _, k := range sortedKeys(subCounts) {
		pieItems = append(pieItems, opts.PieData{Name: k, Value: subCounts[k]})
	}
	pie.AddSeries("Replies", pieItems)
	return pie
}

// 2. Archives per day
func archiveBar(archives []storage.ArchiveRecord) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Archives per Day"}))

	dayCounts := make(map[string]int)
	for _, a := range archives {
		dayCounts[a.CreatedAt.UTC().Format(time.DateOnly)]++
	}

	days := sortedKeys(dayCounts)
	barY := make([]opts.BarData, 0, len(days))
	for _, d := range days {
		barY = append(barY, opts.BarData{Value: dayCounts[d]})
	}
	bar.SetXAxis(days).AddSeries("Archives", barY)
	return bar
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
