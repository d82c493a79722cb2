// Package filter decides which extracted contest records are worth showing.
//
// Records pass through three checks, in order, and the first failing check excludes the record:
//   - Noise keywords: titles announcing recruitment, lectures, volunteering and similar non-contests
//   - Deadline window: closed contests and deadlines outside the requested From/To range
//   - Closed period text: records without a deadline whose period says it has ended
//
// Deduplication by link happens before the checks through a SeenLinks set owned by the caller,
// so the first occurrence of a link wins even when it is later excluded.
//
// Example usage:
//
//	p := filter.NewPipeline(nil)
//	seen := filter.NewSeenLinks()
//	w := filter.Window{To: &endOfMonth}
//
//	for _, page := range pages {
//	    kept = append(kept, p.Filter(page, seen, w)...)
//	}
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// DefaultNoiseKeywords mark listings that are not genuine contests
var DefaultNoiseKeywords = []string{
	"모집", "채용", "무료", "멘토링", "special", "스페셜",
	"교육", "강의", "세미나", "워크샵", "설명회", "상담",
	"지원자", "참가자", "수강생", "인턴", "아르바이트",
	"봉사", "자원봉사", "기부", "후원", "협찬",
}

// ClosedPeriodKeywords exclude records without a deadline whose period text says they ended
var ClosedPeriodKeywords = []string{"마감", "종료", "완료"}

// Reason explains why a record was excluded
type Reason string

const (
	ReasonKept         Reason = ""
	ReasonNoise        Reason = "noise_keyword"
	ReasonClosed       Reason = "deadline_passed"
	ReasonBeforeWindow Reason = "before_from"
	ReasonAfterWindow  Reason = "after_to"
	ReasonClosedPeriod Reason = "closed_period"
	ReasonDuplicate    Reason = "duplicate_link"
)

// Window is an optional inclusive deadline range
type Window struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsEmpty reports whether neither bound is set
func (w Window) IsEmpty() bool {
	return w.From == nil && w.To == nil
}

// String returns a human-readable description of the window.
// Format: "From: 2025.01.01 | To: 2025.03.31"
func (w Window) String() string {
	if w.IsEmpty() {
		return "Any deadline"
	}

	var parts []string
	if w.From != nil {
		parts = append(parts, fmt.Sprintf("From: %s", w.From.Format(contest.DateLayout)))
	}
	if w.To != nil {
		parts = append(parts, fmt.Sprintf("To: %s", w.To.Format(contest.DateLayout)))
	}
	return strings.Join(parts, " | ")
}

// SeenLinks is the caller-owned deduplication set threaded across pages
type SeenLinks map[string]struct{}

// NewSeenLinks creates an empty set
func NewSeenLinks() SeenLinks {
	return make(SeenLinks)
}

// Add records link and reports whether it was new
func (s SeenLinks) Add(link string) bool {
	if _, ok := s[link]; ok {
		return false
	}
	s[link] = struct{}{}
	return true
}

// Pipeline applies the record checks
type Pipeline struct {
	noise     []string
	now       func() time.Time
	onExclude func(rec *contest.Record, reason Reason)
}

// NewPipeline creates a pipeline with the default noise keywords plus extra.
// now is the clock used for "today"; nil means time.Now.
func NewPipeline(now func() time.Time, extra ...string) *Pipeline {
	if now == nil {
		now = time.Now
	}

	noise := make([]string, 0, len(DefaultNoiseKeywords)+len(extra))
	for _, kw := range append(append([]string{}, DefaultNoiseKeywords...), extra...) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			noise = append(noise, kw)
		}
	}

	return &Pipeline{noise: noise, now: now}
}

// OnExclude registers fn to be called for every record Filter drops
func (p *Pipeline) OnExclude(fn func(rec *contest.Record, reason Reason)) {
	p.onExclude = fn
}

// Keep checks a single record against the window.
// Returns false and the reason when the record is excluded.
func (p *Pipeline) Keep(rec *contest.Record, w Window) (bool, Reason) {
	title := strings.ToLower(rec.Title)
	for _, kw := range p.noise {
		if strings.Contains(title, kw) {
			return false, ReasonNoise
		}
	}

	if rec.Deadline != nil {
		deadline := *rec.Deadline
		if deadline.Before(contest.DateOf(p.now())) {
			return false, ReasonClosed
		}
		if w.From != nil && deadline.Before(*w.From) {
			return false, ReasonBeforeWindow
		}
		if w.To != nil && deadline.After(*w.To) {
			return false, ReasonAfterWindow
		}
		return true, ReasonKept
	}

	period := strings.ToLower(rec.Period)
	for _, kw := range ClosedPeriodKeywords {
		if strings.Contains(period, kw) {
			return false, ReasonClosedPeriod
		}
	}

	return true, ReasonKept
}

// Filter deduplicates records against seen and returns those that pass Keep.
// seen is updated with every link, including the excluded ones.
func (p *Pipeline) Filter(records []*contest.Record, seen SeenLinks, w Window) []*contest.Record {
	var kept []*contest.Record
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if !seen.Add(rec.Link) {
			p.exclude(rec, ReasonDuplicate)
			continue
		}
		if ok, reason := p.Keep(rec, w); ok {
			kept = append(kept, rec)
		} else {
			p.exclude(rec, reason)
		}
	}
	return kept
}

func (p *Pipeline) exclude(rec *contest.Record, reason Reason) {
	if p.onExclude != nil {
		p.onExclude(rec, reason)
	}
}
