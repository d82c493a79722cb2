package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/logger"
)

type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) SendMessage(_ context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

func TestTelegramNotifier_Notify(t *testing.T) {
	sender := &stubSender{}
	n := &TelegramNotifier{client: sender, now: testNow, log: logger.Nop()}

	var records []*contest.Record
	for i := 0; i < 40; i++ {
		title := fmt.Sprintf("%02d %s", i, strings.Repeat("공공데이터 분석 경진대회 ", 6))
		records = append(records, testRecord(title, date(2025, 7, 1), "", fmt.Sprintf("https://www.wevity.com/?ix=%d", i)))
	}

	require.NoError(t, n.Notify(context.Background(), records))
	require.Greater(t, len(sender.sent), 1, "long digests are split")
	assert.Contains(t, sender.sent[0], "40개 공모전")
	assert.Equal(t, int64(len(sender.sent)), n.log.Metrics().Counter("telegram.sent"))
}

func TestTelegramNotifier_Errors(t *testing.T) {
	n := &TelegramNotifier{client: &stubSender{err: errors.New("chat not found")}, now: testNow, log: logger.Nop()}

	err := n.Notify(context.Background(), []*contest.Record{
		testRecord("영상 공모전", date(2025, 7, 1), "", "https://www.wevity.com/?ix=1"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "part 1/1")
	assert.Contains(t, err.Error(), "chat not found")

	assert.ErrorIs(t, n.Notify(context.Background(), nil), ErrNoRecords)

	_, err = NewTelegramNotifier("", "123", nil)
	assert.Error(t, err)
}
