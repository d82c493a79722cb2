// Package scraper fetches wevity.com search result pages and turns them into contest records.
//
// A search walks result pages in order. Each page goes through three steps:
//   - Locator picks the repeated listing fragments out of the page
//   - Extractor reads title, host, period, deadline, prize and link from each fragment
//   - filter.Pipeline drops noise, closed and out-of-window records and duplicate links
//
// Pages come from a PageSource. HTTPSource is a plain HTTP client with retries and charset
// decoding; BrowserSource renders the page in headless Chromium and is used as a fallback
// when the HTTP pass collects nothing. Requests are paced by a rate limiter.
//
// Pagination stops after the last requested page, at an empty page other than the first,
// or when a page after the first keeps no records.
package scraper
