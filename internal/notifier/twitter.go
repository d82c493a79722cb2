package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/wevity-contests/internal/config"
	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/logger"
)

// TweetLimit is the maximum tweet length in characters
const TweetLimit = 280

// DefaultTweetDelay is the pause between consecutive tweets
const DefaultTweetDelay = 2 * time.Second

type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, *http.Response, error)
}

// TwitterNotifier posts one tweet per contest
type TwitterNotifier struct {
	statuses statusUpdater
	delay    time.Duration
	now      func() time.Time
	log      *logger.Logger
}

// NewTwitterNotifier creates a Twitter notifier from OAuth1 credentials
func NewTwitterNotifier(creds config.TwitterConfig, log *logger.Logger) (*TwitterNotifier, error) {
	if !creds.HasCredentials() {
		return nil, fmt.Errorf("missing required Twitter credentials (TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_SECRET)")
	}
	if log == nil {
		log = logger.Nop()
	}

	oauthConfig := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{
		statuses: client.Statuses,
		delay:    DefaultTweetDelay,
		now:      time.Now,
		log:      log,
	}, nil
}

// Notify posts a tweet for each record, waiting between tweets
func (n *TwitterNotifier) Notify(ctx context.Context, records []*contest.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	today := n.now()
	for i, rec := range records {
		if _, _, err := n.statuses.Update(FormatTweet(rec, today), nil); err != nil {
			n.log.Metrics().IncrCounter("tweets.failed")
			return fmt.Errorf("failed to post tweet for contest %s: %w", rec.ID, err)
		}
		n.log.Metrics().IncrCounter("tweets.posted")
		n.log.Debug("Tweet posted", logger.Fields{"id": rec.ID, "title": contest.Truncate(rec.Title, 50)})

		if i < len(records)-1 && n.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.delay):
			}
		}
	}

	return nil
}

// FormatTweet renders a record as a tweet of at most TweetLimit characters.
// The title is shortened first so the deadline and link survive.
func FormatTweet(rec *contest.Record, today time.Time) string {
	var rest strings.Builder
	if rec.Host != "" && rec.Host != contest.Unknown {
		fmt.Fprintf(&rest, "🏢 %s\n", rec.Host)
	}
	fmt.Fprintf(&rest, "📅 %s\n", contest.FormatDeadline(rec.Deadline, today))
	if rec.Prize != "" && rec.Prize != contest.Unknown {
		fmt.Fprintf(&rest, "💰 %s\n", rec.Prize)
	}
	fmt.Fprintf(&rest, "\n🔗 %s\n\n#공모전 #wevity", rec.Link)

	const header = "🏆 New contest!\n\n"
	title := rec.Title
	budget := TweetLimit - utf8.RuneCountInString(header) - utf8.RuneCountInString(rest.String()) - 1
	if budget < 4 {
		budget = 4
	}
	if utf8.RuneCountInString(title) > budget {
		title = contest.Truncate(title, budget-3)
	}

	tweet := header + title + "\n" + rest.String()
	if utf8.RuneCountInString(tweet) > TweetLimit {
		tweet = contest.Truncate(tweet, TweetLimit-3)
	}
	return tweet
}
