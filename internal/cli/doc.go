// Package cli implements the command-line interface for wevity-contests.
//
// The cli package provides the Cobra-based CLI:
//   - search: crawl result pages for a keyword, filter them by deadline window and save the results
//   - list: show the saved results, numbered
//   - export: write selected results as CSV, JSON, SQLite or iCalendar
//   - send: deliver selected results by email, Resend, Twitter or as a dry run
//
// It coordinates the config, scraper, storage, export and notifier packages. Output goes to
// stdout as text or JSON; structured logs go to stderr.
package cli
