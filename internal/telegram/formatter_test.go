package telegram

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

var today = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

func deadline(m time.Month, d int) *time.Time {
	t := time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFormatContest(t *testing.T) {
	rec := contest.NewRecord("<AI> & 데이터 공모전", "행정안전부", "", deadline(time.June, 13), "1st place: 500만원",
		"https://www.wevity.com/?c=find&ix=1")

	got := FormatContest(rec, today)

	for _, want := range []string{
		"<b>&lt;AI&gt; &amp; 데이터 공모전</b>",
		"🏢 행정안전부",
		"📅 2025.06.13 (D-3)",
		"💰 1st place: 500만원",
		`<a href="https://www.wevity.com/?c=find&amp;ix=1">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatContest() missing %q:\n%s", want, got)
		}
	}
}

func TestFormatContest_UnknownFields(t *testing.T) {
	rec := contest.NewRecord("상시 공모전", "", "", nil, "", "https://www.wevity.com/?ix=2")

	got := FormatContest(rec, today)
	if strings.Contains(got, "🏢") || strings.Contains(got, "💰") {
		t.Errorf("unknown host and prize must be omitted:\n%s", got)
	}
	if !strings.Contains(got, "unknown deadline") {
		t.Errorf("FormatContest() missing unknown deadline:\n%s", got)
	}
}

func TestFormatDigest(t *testing.T) {
	records := []*contest.Record{
		contest.NewRecord("영상 공모전", "", "", deadline(time.June, 12), "", "https://www.wevity.com/?ix=1"),
		contest.NewRecord("사진 공모전", "", "", deadline(time.August, 1), "", "https://www.wevity.com/?ix=2"),
	}

	msgs := FormatDigest(records, today)
	if len(msgs) != 1 {
		t.Fatalf("FormatDigest() returned %d messages, want 1", len(msgs))
	}
	for _, want := range []string{"2025.06.10", "2개 공모전 (7일 내 마감 1개)", "영상 공모전", "사진 공모전"} {
		if !strings.Contains(msgs[0], want) {
			t.Errorf("digest missing %q:\n%s", want, msgs[0])
		}
	}
}

func TestFormatDigest_SplitsLongDigests(t *testing.T) {
	var records []*contest.Record
	for i := 0; i < 60; i++ {
		title := fmt.Sprintf("%02d %s", i, strings.Repeat("공공데이터 활용 아이디어 ", 5))
		records = append(records, contest.NewRecord(title, "행정안전부", "", deadline(time.July, 1), "",
			fmt.Sprintf("https://www.wevity.com/?c=find&s=1&gbn=view&ix=%d", 90000+i)))
	}

	msgs := FormatDigest(records, today)
	if len(msgs) < 2 {
		t.Fatalf("FormatDigest() returned %d messages, want a split", len(msgs))
	}

	seen := 0
	for _, msg := range msgs {
		if n := utf8.RuneCountInString(msg); n > MaxMessageLength {
			t.Errorf("message length %d exceeds %d", n, MaxMessageLength)
		}
		seen += strings.Count(msg, "🏆")
	}
	if seen != len(records) {
		t.Errorf("digest carries %d entries, want %d", seen, len(records))
	}
}

func TestFormatDigest_OversizedEntryKeepsMarkup(t *testing.T) {
	title := strings.Repeat("R&D ", 2000) + "공모전"
	records := []*contest.Record{
		contest.NewRecord("영상 공모전", "", "", deadline(time.June, 12), "", "https://www.wevity.com/?ix=1"),
		contest.NewRecord(title, "행정안전부", "", deadline(time.July, 1), "", "https://www.wevity.com/?ix=9"),
	}

	msgs := FormatDigest(records, today)
	if len(msgs) != 2 {
		t.Fatalf("FormatDigest() returned %d messages, want 2", len(msgs))
	}

	long := msgs[1]
	if n := utf8.RuneCountInString(long); n > MaxMessageLength {
		t.Errorf("message length %d exceeds %d", n, MaxMessageLength)
	}
	for _, want := range []string{"...</b>", "🏢 행정안전부", `<a href="https://www.wevity.com/?ix=9">공모전 바로가기</a>`} {
		if !strings.Contains(long, want) {
			t.Errorf("oversized entry missing %q", want)
		}
	}
	if kept := strings.Count(long, "R&amp;D"); kept < 400 {
		t.Errorf("title shortened to %d words, want the longest prefix that fits", kept)
	}
	if strings.Count(long, "<b>") != strings.Count(long, "</b>") {
		t.Error("bold tags are unbalanced")
	}
	if amp, escaped := strings.Count(long, "&"), strings.Count(long, "&amp;"); amp != escaped {
		t.Errorf("found %d ampersands but %d complete entities", amp, escaped)
	}
}

func TestFormatDigest_Empty(t *testing.T) {
	msgs := FormatDigest(nil, today)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "없습니다") {
		t.Errorf("FormatDigest(nil) = %v", msgs)
	}
}
