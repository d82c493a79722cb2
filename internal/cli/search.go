package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wevity-contests/internal/filter"
	"github.com/pfrederiksen/wevity-contests/internal/logger"
	"github.com/pfrederiksen/wevity-contests/internal/scraper"
	"github.com/pfrederiksen/wevity-contests/internal/storage"
)

type searchFlags struct {
	keyword string
	pages   int
	from    string
	to      string
	sort    string
	format  string
	browser string
}

func newSearchCmd(a *app) *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search contests and save the results",
		Long: `Search wevity.com for open contests matching a keyword.

Dates for --from and --to accept 2025-03-15, 2025.03.15, 03-15 or 3월 15일.
The current year is assumed when it is omitted. The results replace
the previously saved search and can be curated with list, export and send.`,
		Example: `  wevity-contests search --keyword 공공데이터
  wevity-contests search --keyword 영상 --from 2025-07-01 --to 2025-08-31 --sort prize
  wevity-contests search --keyword 디자인 --pages 2 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSearch(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.keyword, "keyword", "k", "", "Search keyword (required)")
	cmd.Flags().IntVar(&f.pages, "pages", 0, "Maximum number of result pages (default from config, 5)")
	cmd.Flags().StringVar(&f.from, "from", "", "Only contests with a deadline on or after this date")
	cmd.Flags().StringVar(&f.to, "to", "", "Only contests with a deadline on or before this date")
	cmd.Flags().StringVar(&f.sort, "sort", string(SortDeadline), "Sort order: deadline, latest, title or prize")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&f.browser, "browser", "", "Browser fallback: auto, never or always (default from config)")

	_ = cmd.MarkFlagRequired("keyword")

	return cmd
}

func (a *app) runSearch(cmd *cobra.Command, f searchFlags) error {
	now := a.now()

	format, err := ParseOutputFormat(f.format)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(f.sort)
	if err != nil {
		return err
	}

	browserSetting := a.cfg.Search.Browser
	if f.browser != "" {
		browserSetting = f.browser
	}
	mode, err := scraper.ParseBrowserMode(browserSetting)
	if err != nil {
		return err
	}

	if f.pages < 0 {
		return fmt.Errorf("--pages must be positive")
	}
	pages := f.pages
	if pages == 0 {
		pages = a.cfg.Search.MaxPages
	}

	window, err := filter.ParseWindow(f.from, f.to, now)
	if err != nil {
		return err
	}
	if err := filter.ValidateSearch(f.keyword, window, now); err != nil {
		return err
	}

	store, err := a.storage()
	if err != nil {
		return err
	}

	sc, closeFn, err := a.newSearcher(a.cfg, mode, a.now, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			a.log.Warn("Failed to close page source", logger.Fields{"error": err.Error()})
		}
	}()

	a.log.Info("Searching", logger.Fields{
		"keyword": f.keyword,
		"pages":   pages,
		"window":  window.String(),
		"browser": string(mode),
	})

	records, err := sc.Search(cmd.Context(), scraper.Query{
		Keyword:  f.keyword,
		MaxPages: pages,
		Window:   window,
	})
	if err != nil {
		return fmt.Errorf("searching contests: %w", err)
	}

	sortRecords(records, order)

	results := &storage.Results{
		Keyword:    f.keyword,
		Window:     window,
		SearchedAt: now.UTC().Format(time.RFC3339),
		Records:    records,
	}
	if err := store.Save(results); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	a.log.Debug("Saved results", logger.Fields{"path": store.Path(), "records": len(records)})

	out := newOutputResult(results.Keyword, window.String(), results.SearchedAt, records, now)
	if err := WriteOutput(a.stdout, out, format, a.verbose, now); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	a.writeMetrics()
	return nil
}
