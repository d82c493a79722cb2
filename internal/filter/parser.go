package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

var (
	fullDatePattern  = regexp.MustCompile(`^(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})$`)
	monthDayPattern  = regexp.MustCompile(`^(\d{1,2})[.\-/](\d{1,2})$`)
	koreanDayPattern = regexp.MustCompile(`^(?:(\d{4})년\s*)?(\d{1,2})월\s*(\d{1,2})일$`)
)

// ParseDate parses a date given on the command line.
//
// Supported formats:
//   - "2025-03-15", "2025.03.15" or "2025/03/15"
//   - "03-15" or "3.15" - current year
//   - "2025년 3월 15일" or "3월 15일" - current year when omitted
//
// The result is midnight UTC.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}

	year := strconv.Itoa(now.Year())
	var y, m, d string

	if matches := fullDatePattern.FindStringSubmatch(input); matches != nil {
		y, m, d = matches[1], matches[2], matches[3]
	} else if matches := monthDayPattern.FindStringSubmatch(input); matches != nil {
		y, m, d = year, matches[1], matches[2]
	} else if matches := koreanDayPattern.FindStringSubmatch(input); matches != nil {
		y, m, d = matches[1], matches[2], matches[3]
		if y == "" {
			y = year
		}
	} else {
		return time.Time{}, fmt.Errorf("invalid date format %q. Use '2025-03-15', '03-15' or '3월 15일'", input)
	}

	t, ok := contest.ParseDateString(y + "." + m + "." + d)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date: %s", input)
	}
	return t, nil
}

// ParseWindow parses optional from/to flags into a Window.
// Empty strings leave the bound open.
func ParseWindow(from, to string, now time.Time) (Window, error) {
	var w Window

	if strings.TrimSpace(from) != "" {
		t, err := ParseDate(from, now)
		if err != nil {
			return Window{}, fmt.Errorf("--from: %w", err)
		}
		w.From = &t
	}

	if strings.TrimSpace(to) != "" {
		t, err := ParseDate(to, now)
		if err != nil {
			return Window{}, fmt.Errorf("--to: %w", err)
		}
		w.To = &t
	}

	return w, nil
}

// ValidateSearch checks search inputs before any page is fetched.
// All problems are reported together.
func ValidateSearch(keyword string, w Window, now time.Time) error {
	var problems []string

	if strings.TrimSpace(keyword) == "" {
		problems = append(problems, "keyword is required")
	}

	if w.From != nil && w.To != nil && w.From.After(*w.To) {
		problems = append(problems, "from date must not be after to date")
	}

	if w.To != nil && w.To.Before(contest.DateOf(now)) {
		problems = append(problems, "to date must not be before today")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid search: %s", strings.Join(problems, "; "))
	}
	return nil
}
