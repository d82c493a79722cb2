package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"github.com/pfrederiksen/wevity-contests/internal/logger"
)

// BrowserConfig controls the headless browser page source
type BrowserConfig struct {
	Headless bool
	Timeout  time.Duration
}

// BrowserSource renders pages in Chromium through Playwright.
// The browser is started on the first Fetch and kept until Close.
type BrowserSource struct {
	cfg BrowserConfig
	log *logger.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewBrowserSource creates a browser page source without starting the browser
func NewBrowserSource(cfg BrowserConfig, log *logger.Logger) *BrowserSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BrowserSource{cfg: cfg, log: log}
}

func (b *BrowserSource) start() error {
	if b.browser != nil {
		return nil
	}

	b.log.Info("Starting headless browser", logger.Fields{"headless": b.cfg.Headless})

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("launching browser: %w", err)
	}

	b.pw = pw
	b.browser = browser
	return nil
}

// Fetch navigates to url, waits for the network to settle and parses the rendered markup
func (b *BrowserSource) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.start(); err != nil {
		return nil, err
	}

	page, err := b.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	defer page.Close() // nolint:errcheck

	timeout := b.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return nil, fmt.Errorf("navigating to page: %w", err)
	}

	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("reading page content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Close shuts down the browser if it was started
func (b *BrowserSource) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}

	var errs []string
	if err := b.browser.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := b.pw.Stop(); err != nil {
		errs = append(errs, err.Error())
	}
	b.browser = nil
	b.pw = nil

	if len(errs) > 0 {
		return fmt.Errorf("closing browser: %s", strings.Join(errs, "; "))
	}
	return nil
}
