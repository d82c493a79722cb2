package notifier

import (
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// DryRunNotifier prints what would be sent without actually sending
type DryRunNotifier struct {
	w   io.Writer
	now func() time.Time
}

// NewDryRunNotifier creates a new dry-run notifier writing to w
func NewDryRunNotifier(w io.Writer, now func() time.Time) *DryRunNotifier {
	if now == nil {
		now = time.Now
	}
	return &DryRunNotifier{w: w, now: now}
}

// Notify prints the newsletter subject and the tweets that would be posted
func (n *DryRunNotifier) Notify(ctx context.Context, records []*contest.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	today := n.now()
	fmt.Fprintf(n.w, "Newsletter subject: %s\n\n", Subject(len(records), today))

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		tweet := FormatTweet(rec, today)
		fmt.Fprintf(n.w, "--- Tweet %d/%d ---\n", i+1, len(records))
		fmt.Fprintln(n.w, tweet)
		fmt.Fprintf(n.w, "\n(Length: %d characters)\n\n", utf8.RuneCountInString(tweet))
	}
	return nil
}
