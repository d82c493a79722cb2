package contest

import (
	"fmt"
	"time"
)

// DateLayout is the display layout used by the listing site.
const DateLayout = "2006.01.02"

// UrgentDays is the window in which a deadline is shown with a countdown.
const UrgentDays = 7

// FormatDeadline renders a deadline relative to today.
//
//	nil          -> "unknown deadline"
//	past         -> "2025.03.15 (closed)"
//	today        -> "2025.03.15 (today!)"
//	within 7days -> "2025.03.15 (D-3)"
//	otherwise    -> "2025.03.15"
func FormatDeadline(deadline *time.Time, today time.Time) string {
	if deadline == nil {
		return "unknown deadline"
	}

	date := deadline.Format(DateLayout)
	days := daysBetween(DateOf(today), *deadline)
	switch {
	case days < 0:
		return date + " (closed)"
	case days == 0:
		return date + " (today!)"
	case days <= UrgentDays:
		return fmt.Sprintf("%s (D-%d)", date, days)
	default:
		return date
	}
}

// Truncate shortens s to at most n runes, appending "..." when it was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Stats summarizes a result set the way the newsletter header shows it.
type Stats struct {
	Total   int `json:"total"`
	Urgent  int `json:"urgent"`  // deadline within UrgentDays
	Later   int `json:"later"`   // deadline after UrgentDays
	Unknown int `json:"unknown"` // no deadline
}

// Summarize counts records by how soon they close.
func Summarize(records []*Record, today time.Time) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		switch {
		case !r.HasDeadline():
			s.Unknown++
		case r.IsClosingSoon(today, UrgentDays):
			s.Urgent++
		default:
			s.Later++
		}
	}
	return s
}
