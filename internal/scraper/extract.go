package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

var (
	titleSelectors = []string{
		".tit a", ".title a", "h3 a", "h4 a",
		".subject a", ".contest-title a", "a[href*='?c=find&']",
	}
	hostSelectors   = []string{".organ", ".host", ".organizer", ".company"}
	periodSelectors = []string{".day", ".period", ".date", ".deadline", ".time", ".dday"}
	prizeSelectors  = []string{".prize", ".reward", ".money", ".won", ".award"}
)

const (
	prizeAmount = `(\d+(?:,\d+)*(?:만|억)?원?)`

	// firstPrizeSpan is the position of the first-place amount among "li span" elements
	firstPrizeSpan = 6

	fallbackMinText  = 10
	fallbackTitleLen = 100
)

var firstPlacePrizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`1등\s*:?\s*` + prizeAmount),
	regexp.MustCompile(`대상\s*:?\s*` + prizeAmount),
	regexp.MustCompile(`최우수상\s*:?\s*` + prizeAmount),
	regexp.MustCompile(`금상\s*:?\s*` + prizeAmount),
}

var generalPrizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`상금\s*:?\s*` + prizeAmount),
	regexp.MustCompile(`총\s*상금\s*` + prizeAmount),
	regexp.MustCompile(`(\d+(?:,\d+)*)\s*만원`),
	regexp.MustCompile(`(\d+(?:,\d+)*)\s*억원`),
}

// Extractor turns a listing fragment into a contest record
type Extractor struct {
	base  *url.URL
	dates *contest.DateExtractor
}

// NewExtractor creates an extractor resolving relative links against baseURL.
func NewExtractor(baseURL string, dates *contest.DateExtractor) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = contest.NewDateExtractor(nil)
	}
	return &Extractor{base: base, dates: dates}, nil
}

// Extract reads one fragment. It returns nil when no title and link can be found.
func (e *Extractor) Extract(fragment *goquery.Selection) *contest.Record {
	if fragment == nil || fragment.Length() == 0 {
		return nil
	}

	fullText := fragmentText(fragment)

	titleEl, title := firstText(fragment, titleSelectors)
	if titleEl == nil {
		return e.fallback(fragment, fullText)
	}

	link, ok := e.resolve(titleEl.AttrOr("href", ""))
	if !ok {
		return nil
	}

	_, host := firstText(fragment, hostSelectors)

	var deadline *time.Time
	if d, ok := e.dates.Extract(fullText); ok {
		deadline = &d
	}

	_, period := firstText(fragment, periodSelectors)
	if period != "" {
		if d, ok := e.dates.Extract(period); ok {
			deadline = &d
		}
	}

	return contest.NewRecord(title, host, period, deadline, extractPrize(fragment, fullText), link)
}

// fallback builds a minimal record from a fragment without a recognized title element
func (e *Extractor) fallback(fragment *goquery.Selection, fullText string) *contest.Record {
	if utf8.RuneCountInString(fullText) <= fallbackMinText {
		return nil
	}

	anchor := fragment.Find("a[href]").First()
	if anchor.Length() == 0 {
		return nil
	}

	link, ok := e.resolve(anchor.AttrOr("href", ""))
	if !ok {
		return nil
	}

	return contest.NewRecord(firstRunes(fullText, fallbackTitleLen), "", "", nil, "", link)
}

// resolve makes href absolute against the base URL
func (e *Extractor) resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if u.IsAbs() {
		return href, true
	}
	return e.base.ResolveReference(u).String(), true
}

// extractPrize tries the prize sources in order and returns contest.Unknown when none match
func extractPrize(fragment *goquery.Selection, fullText string) string {
	spans := fragment.Find("li span")
	if spans.Length() > firstPrizeSpan {
		text := fragmentText(spans.Eq(firstPrizeSpan))
		if text != "" && contest.HasCurrency(text) {
			return contest.FirstPlacePrefix + text
		}
	}

	for _, sel := range prizeSelectors {
		text := ""
		fragment.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text = fragmentText(s)
			return text == ""
		})
		if text != "" && contest.HasCurrency(text) {
			return text
		}
	}

	for _, re := range firstPlacePrizePatterns {
		if m := re.FindStringSubmatch(fullText); m != nil {
			return contest.FirstPlacePrefix + m[1]
		}
	}

	for _, re := range generalPrizePatterns {
		if m := re.FindString(fullText); m != "" {
			return m
		}
	}

	return contest.Unknown
}

// firstText returns the first element, across selectors in order, with non-empty text
func firstText(fragment *goquery.Selection, selectors []string) (*goquery.Selection, string) {
	for _, sel := range selectors {
		var (
			found *goquery.Selection
			text  string
		)
		fragment.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if t := fragmentText(s); t != "" {
				found, text = s, t
				return false
			}
			return true
		})
		if found != nil {
			return found, text
		}
	}
	return nil, ""
}

// fragmentText joins the text nodes of s with single spaces.
// Script and style contents are skipped.
func fragmentText(s *goquery.Selection) string {
	var parts []string
	for _, n := range s.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		*parts = append(*parts, n.Data)
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func firstRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
