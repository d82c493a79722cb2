package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// MaxMessageLength is the Bot API limit for one message
const MaxMessageLength = 4096

// FormatContest formats a single contest as an HTML message entry
func FormatContest(rec *contest.Record, today time.Time) string {
	return formatContest(rec, rec.Title, today)
}

func formatContest(rec *contest.Record, title string, today time.Time) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("🏆 <b>%s</b>\n", html.EscapeString(title)))

	if rec.Host != contest.Unknown {
		msg.WriteString(fmt.Sprintf("🏢 %s\n", html.EscapeString(rec.Host)))
	}

	// Deadline, with a countdown when it is close
	msg.WriteString(fmt.Sprintf("📅 %s\n", contest.FormatDeadline(rec.Deadline, today)))

	if rec.Prize != contest.Unknown {
		msg.WriteString(fmt.Sprintf("💰 %s\n", html.EscapeString(rec.Prize)))
	}

	msg.WriteString(fmt.Sprintf("🔗 <a href=\"%s\">공모전 바로가기</a>\n", html.EscapeString(rec.Link)))

	return msg.String()
}

// FormatDigest formats records as one or more digest messages.
// Entries are never split across messages; each message stays within MaxMessageLength.
func FormatDigest(records []*contest.Record, today time.Time) []string {
	if len(records) == 0 {
		return []string{"📬 조건에 맞는 공모전이 없습니다."}
	}

	stats := contest.Summarize(records, today)
	header := fmt.Sprintf("📬 <b>공모전 알리미</b> • %s\n%d개 공모전 (7일 내 마감 %d개)\n\n",
		today.Format(contest.DateLayout), stats.Total, stats.Urgent)

	var (
		messages []string
		current  strings.Builder
	)
	current.WriteString(header)
	size := utf8.RuneCountInString(header)

	for _, rec := range records {
		entry := fitEntry(rec, today)
		n := utf8.RuneCountInString(entry)

		if size+n > MaxMessageLength && size > 0 {
			messages = append(messages, strings.TrimRight(current.String(), "\n"))
			current.Reset()
			size = 0
		}
		current.WriteString(entry)
		size += n
	}

	if size > 0 {
		messages = append(messages, strings.TrimRight(current.String(), "\n"))
	}
	return messages
}

// fitEntry formats a digest entry, shortening the raw title to the longest
// prefix that fits in one message. Truncation happens before escaping so tags
// and entities stay intact.
func fitEntry(rec *contest.Record, today time.Time) string {
	entry := FormatContest(rec, today) + "\n"
	if utf8.RuneCountInString(entry) <= MaxMessageLength {
		return entry
	}

	title := []rune(rec.Title)
	build := func(keep int) string {
		return formatContest(rec, string(title[:keep])+"...", today) + "\n"
	}

	lo, hi := 0, len(title)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if utf8.RuneCountInString(build(mid)) <= MaxMessageLength {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return build(lo)
}
