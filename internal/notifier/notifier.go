package notifier

import (
	"context"
	"errors"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// ErrNoRecords is returned when there is nothing to deliver
var ErrNoRecords = errors.New("no contests to send")

// Notifier defines the interface for delivering contest notifications
type Notifier interface {
	// Notify delivers the given records
	Notify(ctx context.Context, records []*contest.Record) error
}
