package storage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// ParseSelection parses a 1-based selection such as "1,3,5-7" against a list of n items.
// An empty selection means every item. The result is sorted and free of duplicates.
func ParseSelection(sel string, n int) ([]int, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" || strings.EqualFold(sel, "all") {
		all := make([]int, n)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	picked := make(map[int]struct{})
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, err := parseRange(part)
		if err != nil {
			return nil, err
		}
		if lo < 1 || hi > n {
			return nil, fmt.Errorf("selection %q out of range 1-%d", part, n)
		}
		for i := lo; i <= hi; i++ {
			picked[i] = struct{}{}
		}
	}

	if len(picked) == 0 {
		return nil, fmt.Errorf("empty selection %q", sel)
	}

	out := make([]int, 0, len(picked))
	for i := range picked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

func parseRange(part string) (int, int, error) {
	from, to, isRange := strings.Cut(part, "-")

	lo, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection %q", part)
	}
	if !isRange {
		return lo, lo, nil
	}

	hi, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection %q", part)
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("invalid selection %q: range end before start", part)
	}
	return lo, hi, nil
}

// Select returns the records at the given 1-based positions
func Select(records []*contest.Record, sel string) ([]*contest.Record, error) {
	picks, err := ParseSelection(sel, len(records))
	if err != nil {
		return nil, err
	}

	out := make([]*contest.Record, 0, len(picks))
	for _, i := range picks {
		out = append(out, records[i-1])
	}
	return out, nil
}
