package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ListingSelectors are the structural patterns tried, in order, to find the
// repeated entries of a search results page.
var ListingSelectors = []string{
	"ul.list li",
	".list li",
	".contest_list li",
	".board_list tr",
	"tr",
	".item",
	"div[class*='item']",
	"div[class*='contest']",
	"li[class*='list']",
}

// chromeClasses mark navigation and promotional elements that share the list markup.
var chromeClasses = []string{"header", "top", "ad", "banner", "notice"}

const minFragmentText = 10

// Locator finds listing fragments in a page
type Locator struct {
	selectors []string
}

// NewLocator creates a locator. With no selectors, ListingSelectors is used.
func NewLocator(selectors ...string) *Locator {
	if len(selectors) == 0 {
		selectors = ListingSelectors
	}
	return &Locator{selectors: selectors}
}

// Locate returns the valid fragments of the first selector that yields any.
// An empty result means no candidate pattern matched the page.
func (l *Locator) Locate(doc *goquery.Document) []*goquery.Selection {
	if doc == nil {
		return nil
	}

	for _, sel := range l.selectors {
		var valid []*goquery.Selection
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if isListing(s) {
				valid = append(valid, s)
			}
		})
		if len(valid) > 0 {
			return valid
		}
	}
	return nil
}

// isListing reports whether a fragment looks like a contest entry
func isListing(s *goquery.Selection) bool {
	if utf8.RuneCountInString(fragmentText(s)) < minFragmentText {
		return false
	}

	for _, class := range strings.Fields(s.AttrOr("class", "")) {
		class = strings.ToLower(class)
		for _, chrome := range chromeClasses {
			if class == chrome {
				return false
			}
		}
	}

	return s.Find("a[href]").Length() > 0
}
