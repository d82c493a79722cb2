package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates an output format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// OutputResult contains data to be output
type OutputResult struct {
	SearchedAt string            `json:"searched_at"`
	Keyword    string            `json:"keyword"`
	Window     string            `json:"window"`
	Count      int               `json:"count"`
	Stats      contest.Stats     `json:"stats"`
	Records    []*contest.Record `json:"records"`
}

// newOutputResult builds the output for records as of today
func newOutputResult(keyword, window, searchedAt string, records []*contest.Record, today time.Time) *OutputResult {
	if records == nil {
		records = []*contest.Record{}
	}
	return &OutputResult{
		SearchedAt: searchedAt,
		Keyword:    keyword,
		Window:     window,
		Count:      len(records),
		Stats:      contest.Summarize(records, today),
		Records:    records,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool, today time.Time) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose, today)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

// writeText outputs results as a numbered, human-readable list
func writeText(w io.Writer, result *OutputResult, verbose bool, today time.Time) error {
	fmt.Fprintf(w, "Keyword: %s | %s\n", result.Keyword, result.Window)

	if result.Count == 0 {
		fmt.Fprintln(w, "No contests found.")
		return nil
	}

	for i, rec := range result.Records {
		fmt.Fprintf(w, "\n%3d. %s\n", i+1, rec.Title)
		fmt.Fprintf(w, "     Host: %s | Deadline: %s\n", rec.Host, contest.FormatDeadline(rec.Deadline, today))
		if rec.Period != contest.Unknown {
			fmt.Fprintf(w, "     Period: %s\n", rec.Period)
		}
		if rec.Prize != contest.Unknown {
			fmt.Fprintf(w, "     Prize: %s\n", rec.Prize)
		}
		fmt.Fprintf(w, "     %s\n", rec.Link)
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", rec.ID)
		}
	}

	s := result.Stats
	fmt.Fprintf(w, "\nTotal: %d contests (closing within %d days: %d, later: %d, unknown deadline: %d)\n",
		s.Total, contest.UrgentDays, s.Urgent, s.Later, s.Unknown)

	return nil
}
