package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/filter"
	"github.com/pfrederiksen/wevity-contests/internal/logger"
)

const (
	BaseURL   = "https://www.wevity.com"
	UserAgent = "wevity-contests/1.0 (github.com/pfrederiksen/wevity-contests)"
	Timeout   = 15 * time.Second

	DefaultMaxPages  = 5
	DefaultPageDelay = time.Second
)

// BrowserMode selects when the browser page source is used
type BrowserMode string

const (
	BrowserAuto   BrowserMode = "auto"   // only when the HTTP pass collects nothing
	BrowserNever  BrowserMode = "never"  // HTTP only
	BrowserAlways BrowserMode = "always" // browser only
)

// ParseBrowserMode validates a browser mode name
func ParseBrowserMode(s string) (BrowserMode, error) {
	switch mode := BrowserMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case BrowserAuto, BrowserNever, BrowserAlways:
		return mode, nil
	case "":
		return BrowserAuto, nil
	default:
		return "", fmt.Errorf("unknown browser mode %q (want auto, never or always)", s)
	}
}

// Options configures a Scraper
type Options struct {
	BaseURL       string
	PageDelay     time.Duration
	Browser       BrowserMode
	NoiseKeywords []string
	Now           func() time.Time
}

// Query describes one search
type Query struct {
	Keyword  string
	MaxPages int
	Window   filter.Window
}

// Scraper drives paginated searches against the contest site
type Scraper struct {
	base     string
	http     PageSource
	browser  PageSource
	mode     BrowserMode
	limiter  *rate.Limiter
	locator  *Locator
	extract  *Extractor
	pipeline *filter.Pipeline
	log      *logger.Logger
}

// New creates a new Scraper.
// httpSrc is required; browserSrc may be nil, which disables the browser fallback.
func New(opts Options, httpSrc, browserSrc PageSource, log *logger.Logger) (*Scraper, error) {
	if httpSrc == nil && browserSrc == nil {
		return nil, fmt.Errorf("no page source configured")
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.Browser == "" {
		opts.Browser = BrowserAuto
	}
	if opts.Browser == BrowserAlways && browserSrc == nil {
		return nil, fmt.Errorf("browser mode %q requires a browser page source", opts.Browser)
	}
	if opts.Browser == BrowserNever && httpSrc == nil {
		return nil, fmt.Errorf("browser mode %q requires an HTTP page source", opts.Browser)
	}

	base := strings.TrimRight(opts.BaseURL, "/")
	extractor, err := NewExtractor(base+"/", contest.NewDateExtractor(opts.Now))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	limit := rate.Inf
	if opts.PageDelay > 0 {
		limit = rate.Every(opts.PageDelay)
	}

	s := &Scraper{
		base:     base,
		http:     httpSrc,
		browser:  browserSrc,
		mode:     opts.Browser,
		limiter:  rate.NewLimiter(limit, 1),
		locator:  NewLocator(),
		extract:  extractor,
		pipeline: filter.NewPipeline(opts.Now, opts.NoiseKeywords...),
		log:      log,
	}

	s.pipeline.OnExclude(func(rec *contest.Record, reason filter.Reason) {
		log.Debug("Record excluded", logger.Fields{
			"title":  contest.Truncate(rec.Title, 50),
			"reason": string(reason),
		})
		log.Metrics().IncrCounter("records.excluded." + string(reason))
	})

	return s, nil
}

// SearchURL builds the search results URL for a keyword and a 1-based page index
func SearchURL(base, keyword string, page int) string {
	return fmt.Sprintf("%s/?c=find&s=1&gp=%d&sp=contents&sw=%s",
		strings.TrimRight(base, "/"), page, url.QueryEscape(keyword))
}

// Search collects the records matching q across result pages.
//
// In auto browser mode the HTTP source is tried first and the browser source is used only
// when the HTTP pass keeps no records. The returned error is non-nil only for invalid
// queries and context cancellation; fetch failures degrade to empty pages.
func (s *Scraper) Search(ctx context.Context, q Query) ([]*contest.Record, error) {
	q.Keyword = strings.TrimSpace(q.Keyword)
	if q.Keyword == "" {
		return nil, fmt.Errorf("keyword is required")
	}
	if q.MaxPages <= 0 {
		q.MaxPages = DefaultMaxPages
	}

	var passes []namedSource
	switch s.mode {
	case BrowserAlways:
		passes = append(passes, namedSource{"browser", s.browser})
	case BrowserNever:
		passes = append(passes, namedSource{"http", s.http})
	default:
		if s.http != nil {
			passes = append(passes, namedSource{"http", s.http})
		}
		if s.browser != nil {
			passes = append(passes, namedSource{"browser", s.browser})
		}
	}

	start := time.Now()
	var results []*contest.Record

	for i, pass := range passes {
		if i > 0 {
			s.log.Info("No records collected, retrying with next page source", logger.Fields{
				"source": pass.name,
			})
		}

		records, err := s.crawl(ctx, pass, q)
		if err != nil {
			return records, err
		}
		results = records
		if len(results) > 0 {
			break
		}
	}

	s.log.Metrics().SetGauge("records.kept", float64(len(results)))
	s.log.Metrics().RecordTiming("search", time.Since(start))
	s.log.Info("Search finished", logger.Fields{
		"keyword": q.Keyword,
		"window":  q.Window.String(),
		"records": len(results),
	})

	return results, nil
}

type namedSource struct {
	name string
	src  PageSource
}

// crawl walks result pages with one source until a stop condition is reached
func (s *Scraper) crawl(ctx context.Context, pass namedSource, q Query) ([]*contest.Record, error) {
	seen := filter.NewSeenLinks()
	var results []*contest.Record

	for page := 1; page <= q.MaxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return results, err
		}

		pageURL := SearchURL(s.base, q.Keyword, page)
		fields := logger.Fields{"source": pass.name, "page": page}

		fetchStart := time.Now()
		doc, err := pass.src.Fetch(ctx, pageURL)
		s.log.Metrics().RecordTiming("page.fetch", time.Since(fetchStart))
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			s.log.Warn("Page fetch failed", logger.Fields{"source": pass.name, "page": page, "url": pageURL, "error": err.Error()})
			s.log.Metrics().IncrCounter("pages.failed")
			doc = nil
		} else {
			s.log.Metrics().IncrCounter("pages.fetched")
		}

		fragments := s.locator.Locate(doc)
		if len(fragments) == 0 {
			s.log.Warn("No listing fragments found", fields)
			if page > 1 {
				break
			}
			continue
		}

		raw := make([]*contest.Record, 0, len(fragments))
		for _, fragment := range fragments {
			if rec := s.extract.Extract(fragment); rec != nil {
				raw = append(raw, rec)
			}
		}
		s.log.Metrics().AddCounter("records.extracted", int64(len(raw)))

		kept := s.pipeline.Filter(raw, seen, q.Window)
		results = append(results, kept...)

		s.log.Info("Page processed", logger.Fields{
			"source":    pass.name,
			"page":      page,
			"fragments": len(fragments),
			"extracted": len(raw),
			"kept":      len(kept),
		})

		if len(kept) == 0 && page > 1 {
			break
		}
	}

	return results, nil
}
