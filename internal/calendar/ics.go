package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// maxLineOctets is the RFC 5545 content line limit, excluding CRLF
const maxLineOctets = 75

// GenerateICS generates an iCalendar (.ics) file with one all-day event per contest deadline.
// Records without a deadline, or marked closed, are skipped. now is used for DTSTAMP.
func GenerateICS(records []*contest.Record, now time.Time) string {
	var ics strings.Builder

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:-//wevity-contests//Contest Deadlines//KO")
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	writeLine(&ics, "X-WR-CALNAME:공모전 마감일")

	for _, rec := range records {
		if rec == nil || !rec.HasDeadline() || rec.Closed() {
			continue
		}
		writeEvent(&ics, rec, now)
	}

	writeLine(&ics, "END:VCALENDAR")

	return ics.String()
}

// Count returns how many records GenerateICS would turn into events
func Count(records []*contest.Record) int {
	n := 0
	for _, rec := range records {
		if rec != nil && rec.HasDeadline() && !rec.Closed() {
			n++
		}
	}
	return n
}

func writeEvent(ics *strings.Builder, rec *contest.Record, now time.Time) {
	deadline := contest.DateOf(*rec.Deadline)

	writeLine(ics, "BEGIN:VEVENT")

	// UID - stable across exports of the same listing
	writeLine(ics, fmt.Sprintf("UID:%s@wevity.com", rec.ID))
	writeLine(ics, fmt.Sprintf("DTSTAMP:%s", formatICSTime(now)))

	// All-day event on the deadline; DTEND is exclusive
	writeLine(ics, fmt.Sprintf("DTSTART;VALUE=DATE:%s", formatICSDate(deadline)))
	writeLine(ics, fmt.Sprintf("DTEND;VALUE=DATE:%s", formatICSDate(deadline.AddDate(0, 0, 1))))

	writeLine(ics, fmt.Sprintf("SUMMARY:%s", escapeICS("[마감] "+rec.Title)))

	var desc []string
	if rec.Host != contest.Unknown {
		desc = append(desc, "주최: "+rec.Host)
	}
	if rec.Period != contest.Unknown {
		desc = append(desc, "기간: "+rec.Period)
	}
	if rec.Prize != contest.Unknown {
		desc = append(desc, "상금: "+rec.Prize)
	}
	desc = append(desc, rec.Link)
	writeLine(ics, fmt.Sprintf("DESCRIPTION:%s", escapeICS(strings.Join(desc, "\n"))))

	writeLine(ics, fmt.Sprintf("URL:%s", rec.Link))
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "SEQUENCE:0")

	// TRANSP - deadlines do not block time
	writeLine(ics, "TRANSP:TRANSPARENT")

	writeLine(ics, "BEGIN:VALARM")
	writeLine(ics, "ACTION:DISPLAY")
	writeLine(ics, fmt.Sprintf("DESCRIPTION:%s", escapeICS("마감 3일 전: "+rec.Title)))
	writeLine(ics, "TRIGGER:-P3D")
	writeLine(ics, "END:VALARM")

	writeLine(ics, "END:VEVENT")
}

// writeLine writes a content line folded at 75 octets, never splitting a UTF-8 sequence
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space, which counts toward the limit
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatICSDate formats a date value
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
