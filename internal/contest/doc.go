// Package contest provides the contest record type and the text normalizers shared by the scraper.
//
// The contest package owns the deadline extraction cascade, which turns free text such as
// "2025.01.01 ~ 2025.03.15", "3월 15일 마감" or "D-5" into a calendar date, and the prize helpers used
// to rank contests by their first-place amount. Records are identified by a deterministic SHA1 of their
// absolute link, so the same listing keeps its ID across searches.
package contest
