package contest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var closedSentinel = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// ClosedSentinel is the deadline returned for listings that are marked as already closed.
// It is distinct from an unknown deadline: a nil deadline means "not found".
func ClosedSentinel() time.Time {
	return closedSentinel
}

// maxCountdownDays bounds D-n countdowns; larger values are treated as noise.
const maxCountdownDays = 3650

// closedMarkers short-circuit the cascade before any date pattern runs.
var closedMarkers = []string{"마감됨", "접수마감", "종료됨", "완료됨"}

const (
	numericDate  = `\d{4}[.\-/]\d{1,2}[.\-/]\d{1,2}`
	shortDate    = `\d{2}[.\-/]\d{1,2}[.\-/]\d{1,2}`
	rangeJoin    = `\s*(?:~|∼|-|까지)\s*`
	monthDay     = `(\d{1,2})월\s*(\d{1,2})일`
	yearMonthDay = `(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`
)

// dateForm tells how the captured groups of a pattern become a date.
type dateForm int

const (
	formNumeric      dateForm = iota // one group, parsed by ParseDateString
	formMonthDay                     // month, day; current year
	formYearMonthDay                 // year, month, day
)

type datePattern struct {
	re   *regexp.Regexp
	form dateForm
	// first is the index of the first group holding the date to return.
	first int
}

// rangePatterns return the end of the stated period.
var rangePatterns = []datePattern{
	{regexp.MustCompile(`(` + numericDate + `)` + rangeJoin + `(` + numericDate + `)`), formNumeric, 2},
	{regexp.MustCompile(`(` + shortDate + `)` + rangeJoin + `(` + shortDate + `)`), formNumeric, 2},
	{regexp.MustCompile(monthDay + rangeJoin + monthDay), formMonthDay, 3},
	{regexp.MustCompile(yearMonthDay + rangeJoin + yearMonthDay), formYearMonthDay, 4},
}

var singlePatterns = []datePattern{
	{regexp.MustCompile(`마감\s*:?\s*(` + numericDate + `)`), formNumeric, 1},
	{regexp.MustCompile(`까지\s*:?\s*(` + numericDate + `)`), formNumeric, 1},
	{regexp.MustCompile(`(` + numericDate + `)\s*마감`), formNumeric, 1},
	{regexp.MustCompile(`접수마감\s*:?\s*(` + numericDate + `)`), formNumeric, 1},
	{regexp.MustCompile(yearMonthDay + `\s*마감`), formYearMonthDay, 1},
	{regexp.MustCompile(monthDay + `\s*마감`), formMonthDay, 1},
	{regexp.MustCompile(`마감일\s*:?\s*(` + numericDate + `)`), formNumeric, 1},
}

var countdownPattern = regexp.MustCompile(`D[－\-](\d+)`)

var barePatterns = []*regexp.Regexp{
	regexp.MustCompile(numericDate),
	regexp.MustCompile(shortDate),
}

var (
	whitespace     = regexp.MustCompile(`\s+`)
	dateSeparators = regexp.MustCompile(`[.\-/]`)
)

// DateExtractor turns free text into a contest deadline.
type DateExtractor struct {
	now func() time.Time
}

// NewDateExtractor creates an extractor using now as its clock.
// A nil clock means time.Now.
func NewDateExtractor(now func() time.Time) *DateExtractor {
	if now == nil {
		now = time.Now
	}
	return &DateExtractor{now: now}
}

// Extract returns the deadline found in text.
// ok is false when no pattern produced a valid date.
//
// Patterns are tried in priority order and the first successful parse wins:
//   - closed markers (returns ClosedSentinel())
//   - date ranges (returns the end of the range)
//   - single deadline phrases such as "마감: 2025.03.15" or "3월 15일 마감"
//   - countdowns such as "D-5", up to ten years out
//   - bare dates, latest one not in a past year
func (e *DateExtractor) Extract(text string) (time.Time, bool) {
	text = whitespace.ReplaceAllString(strings.TrimSpace(text), " ")
	if text == "" {
		return time.Time{}, false
	}

	lower := strings.ToLower(text)
	for _, marker := range closedMarkers {
		if strings.Contains(lower, marker) {
			return closedSentinel, true
		}
	}

	today := DateOf(e.now())

	for _, p := range rangePatterns {
		if d, ok := p.match(text, today.Year()); ok {
			return d, true
		}
	}

	for _, p := range singlePatterns {
		if d, ok := p.match(text, today.Year()); ok {
			return d, true
		}
	}

	if m := countdownPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= maxCountdownDays {
			return today.AddDate(0, 0, n), true
		}
	}

	for _, re := range barePatterns {
		var latest time.Time
		for _, s := range re.FindAllString(text, -1) {
			d, ok := ParseDateString(s)
			if !ok || d.Year() < today.Year() {
				continue
			}
			if d.After(latest) {
				latest = d
			}
		}
		if !latest.IsZero() {
			return latest, true
		}
	}

	return time.Time{}, false
}

// match applies the pattern and builds the date from the captured groups.
// A structural match that does not form a valid date counts as no match.
func (p datePattern) match(text string, currentYear int) (time.Time, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	g := m[p.first:]

	switch p.form {
	case formNumeric:
		return ParseDateString(g[0])
	case formMonthDay:
		return buildDate(strconv.Itoa(currentYear), g[0], g[1])
	case formYearMonthDay:
		return buildDate(g[0], g[1], g[2])
	}
	return time.Time{}, false
}

// ParseDateString parses a numeric date such as "2025.03.15", "2025-3-5" or "25/03/15".
// Two-digit years are read as 20xx.
func ParseDateString(s string) (time.Time, bool) {
	s = dateSeparators.ReplaceAllString(strings.TrimSpace(s), ".")
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	return buildDate(parts[0], parts[1], parts[2])
}

// buildDate validates the calendar fields and expands years below 2000.
func buildDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	if y < 2000 {
		y += 2000
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes Feb 30 into March
	if t.Month() != time.Month(m) || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
