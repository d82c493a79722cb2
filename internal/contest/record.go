package contest

import (
	"crypto/sha1"
	"fmt"
	"time"
)

// Unknown is stored in text fields the listing did not provide.
const Unknown = "unknown"

// FirstPlacePrefix marks a prize string that was read as the first-place amount.
const FirstPlacePrefix = "1st place: "

// Record represents one contest listing
type Record struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Host     string     `json:"host"`
	Period   string     `json:"period"`
	Deadline *time.Time `json:"deadline,omitempty"` // nil when no pattern matched
	Prize    string     `json:"prize"`
	Link     string     `json:"link"`
}

// GenerateID creates a deterministic ID for a record based on its absolute link
func GenerateID(link string) string {
	h := sha1.New()
	h.Write([]byte(link))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NewRecord creates a new Record with ID populated.
// Empty host, period and prize values are replaced with Unknown.
func NewRecord(title, host, period string, deadline *time.Time, prize, link string) *Record {
	if host == "" {
		host = Unknown
	}
	if period == "" {
		period = Unknown
	}
	if prize == "" {
		prize = Unknown
	}
	return &Record{
		ID:       GenerateID(link),
		Title:    title,
		Host:     host,
		Period:   period,
		Deadline: deadline,
		Prize:    prize,
		Link:     link,
	}
}

// HasDeadline reports whether a deadline was extracted.
func (r *Record) HasDeadline() bool {
	return r.Deadline != nil
}

// Closed reports whether the listing was marked as already closed.
func (r *Record) Closed() bool {
	return r.Deadline != nil && r.Deadline.Equal(closedSentinel)
}

// DaysLeft returns the number of days between today and the deadline.
// ok is false when the deadline is unknown.
func (r *Record) DaysLeft(today time.Time) (days int, ok bool) {
	if r.Deadline == nil {
		return 0, false
	}
	return daysBetween(DateOf(today), *r.Deadline), true
}

// IsClosingSoon reports whether the deadline falls within the next n days (today included).
func (r *Record) IsClosingSoon(today time.Time, n int) bool {
	days, ok := r.DaysLeft(today)
	return ok && days <= n
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
