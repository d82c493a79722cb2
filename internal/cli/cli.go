package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wevity-contests/internal/config"
	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/logger"
	"github.com/pfrederiksen/wevity-contests/internal/scraper"
	"github.com/pfrederiksen/wevity-contests/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// searcher runs one search; *scraper.Scraper in production
type searcher interface {
	Search(ctx context.Context, q scraper.Query) ([]*contest.Record, error)
}

// searcherFactory builds a searcher and a cleanup func from the loaded configuration
type searcherFactory func(cfg *config.Config, mode scraper.BrowserMode, now func() time.Time, log *logger.Logger) (searcher, func() error, error)

// app carries state shared by all subcommands
type app struct {
	configPath string
	dataDir    string
	verbose    bool

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	newSearcher searcherFactory

	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		now:         time.Now,
		newSearcher: newScraper,
	})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wevity-contests",
		Short: "Search, curate and share contests listed on wevity.com",
		Long: `A CLI tool to collect open contests from wevity.com search results.
Results of the last search are kept so they can be listed, exported
(CSV, JSON, SQLite, iCalendar) or sent as a newsletter or tweets.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.config/wevity-contests/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Data directory for the last search results")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newSearchCmd(a),
		newListCmd(a),
		newExportCmd(a),
		newSendCmd(a),
	)

	return cmd
}

// setup loads configuration and builds the logger before any subcommand runs
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = logger.LevelDebug
	}

	a.cfg = cfg
	a.log = logger.New(level, a.stderr).With(logger.Fields{"command": cmd.Name()})
	return nil
}

func (a *app) storage() (*storage.Storage, error) {
	store, err := storage.New(a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// writeMetrics prints the metrics snapshot to stderr in verbose mode
func (a *app) writeMetrics() {
	if !a.verbose {
		return
	}
	data, err := json.MarshalIndent(a.log.Metrics().GetSnapshot(), "", "  ")
	if err != nil {
		a.log.Warn("Failed to encode metrics", logger.Fields{"error": err.Error()})
		return
	}
	fmt.Fprintf(a.stderr, "Metrics: %s\n", data)
}

// newScraper wires the HTTP and browser page sources into a Scraper
func newScraper(cfg *config.Config, mode scraper.BrowserMode, now func() time.Time, log *logger.Logger) (searcher, func() error, error) {
	httpSrc := scraper.NewHTTPSource(scraper.HTTPConfig{
		UserAgent:     cfg.Search.UserAgent,
		Timeout:       cfg.Search.Timeout,
		MaxRetries:    cfg.Search.MaxRetries,
		RetryInterval: cfg.Search.RetryInterval,
	}, log)

	var (
		browser    *scraper.BrowserSource
		browserSrc scraper.PageSource
	)
	if mode != scraper.BrowserNever {
		browser = scraper.NewBrowserSource(scraper.BrowserConfig{
			Headless: cfg.Search.Headless,
			Timeout:  2 * cfg.Search.Timeout,
		}, log)
		browserSrc = browser
	}

	closeFn := func() error {
		if browser == nil {
			return nil
		}
		return browser.Close()
	}

	sc, err := scraper.New(scraper.Options{
		BaseURL:       cfg.Search.BaseURL,
		PageDelay:     cfg.Search.PageDelay,
		Browser:       mode,
		NoiseKeywords: cfg.Search.NoiseKeywords,
		Now:           now,
	}, httpSrc, browserSrc, log)
	if err != nil {
		return nil, closeFn, fmt.Errorf("initializing scraper: %w", err)
	}

	return sc, closeFn, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
