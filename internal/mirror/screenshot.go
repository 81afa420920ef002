package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
)

// Screenshotter renders pages with a headless chromium and saves full-page
// PNG screenshots. The browser is started on first use and shared.
type Screenshotter struct {
	timeout time.Duration

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewScreenshotter creates a Screenshotter whose page loads give up after timeout.
func NewScreenshotter(timeout time.Duration) *Screenshotter {
	return &Screenshotter{timeout: timeout}
}

func (s *Screenshotter) start() error {
	if s.browser != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return errors.Wrap(err, "failed to start playwright")
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return errors.Wrap(err, "failed to launch chromium")
	}

	s.pw = pw
	s.browser = browser
	return nil
}

// Capture opens the local page at src and writes a screenshot of the whole
// page to dest.
func (s *Screenshotter) Capture(ctx context.Context, src, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.start(); err != nil {
		return err
	}

	page, err := s.browser.NewPage()
	if err != nil {
		return errors.Wrap(err, "failed to open page")
	}
	defer page.Close()
	page.SetDefaultTimeout(float64(s.timeout.Milliseconds()))

	if _, err := page.Goto(FileURL(src), playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return errors.Wrapf(err, "failed to load %s", src)
	}

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Path:     playwright.String(dest),
	}); err != nil {
		return errors.Wrapf(err, "failed to screenshot %s", src)
	}
	return nil
}

// Close shuts the browser down.
func (s *Screenshotter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}
	if err := s.browser.Close(); err != nil {
		return errors.Wrap(err, "failed to close chromium")
	}
	s.browser = nil
	return errors.Wrap(s.pw.Stop(), "failed to stop playwright")
}
