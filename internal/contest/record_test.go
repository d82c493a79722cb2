package contest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	link := "https://www.wevity.com/?c=find&s=1&gbn=view&ix=100"

	id1 := GenerateID(link)
	id2 := GenerateID(link)

	assert.Equal(t, id1, id2, "GenerateID should be deterministic")
	assert.Len(t, id1, 40) // SHA1 hex
	assert.NotEqual(t, id1, GenerateID(link+"1"))
}

func TestNewRecord_Defaults(t *testing.T) {
	r := NewRecord("공모전", "", "", nil, "", "https://www.wevity.com/a")

	assert.Equal(t, Unknown, r.Host)
	assert.Equal(t, Unknown, r.Period)
	assert.Equal(t, Unknown, r.Prize)
	assert.Nil(t, r.Deadline)
	assert.False(t, r.HasDeadline())
	assert.Equal(t, GenerateID("https://www.wevity.com/a"), r.ID)
}

func TestRecord_Closed(t *testing.T) {
	closed := ClosedSentinel()
	open := date(2025, time.July, 1)

	assert.True(t, (&Record{Deadline: &closed}).Closed())
	assert.False(t, (&Record{Deadline: &open}).Closed())
	assert.False(t, (&Record{}).Closed())

	closed = closed.AddDate(1, 0, 0)
	assert.Equal(t, date(2020, time.January, 1), ClosedSentinel(), "sentinel must not change through a copy")
}

func TestRecord_DaysLeft(t *testing.T) {
	today := time.Date(2025, time.June, 10, 23, 0, 0, 0, time.UTC)
	deadline := date(2025, time.June, 13)

	r := &Record{Deadline: &deadline}
	days, ok := r.DaysLeft(today)
	assert.True(t, ok)
	assert.Equal(t, 3, days)
	assert.True(t, r.IsClosingSoon(today, 7))
	assert.False(t, r.IsClosingSoon(today, 2))

	_, ok = (&Record{}).DaysLeft(today)
	assert.False(t, ok)
}

func TestFormatDeadline(t *testing.T) {
	today := date(2025, time.June, 10)
	d := func(y int, m time.Month, day int) *time.Time {
		t := date(y, m, day)
		return &t
	}

	tests := []struct {
		name     string
		deadline *time.Time
		want     string
	}{
		{"unknown", nil, "unknown deadline"},
		{"closed", d(2025, time.June, 1), "2025.06.01 (closed)"},
		{"today", d(2025, time.June, 10), "2025.06.10 (today!)"},
		{"within a week", d(2025, time.June, 13), "2025.06.13 (D-3)"},
		{"later", d(2025, time.June, 30), "2025.06.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDeadline(tt.deadline, today))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "공모전...", Truncate("공모전 제목입니다", 3))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("", 5))
}

func TestSummarize(t *testing.T) {
	today := date(2025, time.June, 10)
	soon := date(2025, time.June, 12)
	later := date(2025, time.August, 1)

	records := []*Record{
		{Title: "a", Deadline: &soon},
		{Title: "b", Deadline: &later},
		{Title: "c", Deadline: &later},
		{Title: "d"},
	}

	assert.Equal(t, Stats{Total: 4, Urgent: 1, Later: 2, Unknown: 1}, Summarize(records, today))
}
