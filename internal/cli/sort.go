package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone     SortOrder = ""
	SortDeadline SortOrder = "deadline"
	SortLatest   SortOrder = "latest"
	SortTitle    SortOrder = "title"
	SortPrize    SortOrder = "prize"
)

// ParseSortOrder validates a sort order name
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortNone, SortDeadline, SortLatest, SortTitle, SortPrize:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'deadline', 'latest', 'title' or 'prize')", s)
	}
}

// sortRecords sorts records in place. SortNone keeps the stored order.
func sortRecords(records []*contest.Record, order SortOrder) {
	switch order {
	case SortDeadline:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDeadline(records[i], records[j])
		})
	case SortLatest:
		sort.SliceStable(records, func(i, j int) bool {
			a, b := records[i], records[j]
			switch {
			case a.Deadline == nil && b.Deadline == nil:
				return lessTitle(a, b)
			case a.Deadline == nil || b.Deadline == nil:
				return a.Deadline == nil
			case !a.Deadline.Equal(*b.Deadline):
				return a.Deadline.After(*b.Deadline)
			default:
				return lessTitle(a, b)
			}
		})
	case SortTitle:
		sort.SliceStable(records, func(i, j int) bool {
			if !strings.EqualFold(records[i].Title, records[j].Title) {
				return lessTitle(records[i], records[j])
			}
			// If titles are equal, sort by deadline
			return compareByDeadline(records[i], records[j])
		})
	case SortPrize:
		sort.SliceStable(records, func(i, j int) bool {
			pi, pj := contest.PrizeAmount(records[i].Prize), contest.PrizeAmount(records[j].Prize)
			if pi != pj {
				return pi > pj
			}
			return compareByDeadline(records[i], records[j])
		})
	}
}

// compareByDeadline puts the soonest deadline first and unknown deadlines last
func compareByDeadline(a, b *contest.Record) bool {
	if a.Deadline != nil && b.Deadline != nil {
		if !a.Deadline.Equal(*b.Deadline) {
			return a.Deadline.Before(*b.Deadline)
		}
		return lessTitle(a, b)
	}

	// If only one deadline is known, put the known one first
	if a.Deadline != nil {
		return true
	}
	if b.Deadline != nil {
		return false
	}
	return lessTitle(a, b)
}

func lessTitle(a, b *contest.Record) bool {
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}
