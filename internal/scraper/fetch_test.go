package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/pfrederiksen/wevity-contests/internal/logger"
)

func fastHTTPSource(retries int) *HTTPSource {
	return NewHTTPSource(HTTPConfig{
		MaxRetries:    retries,
		RetryInterval: time.Millisecond,
	}, logger.Nop())
}

func TestHTTPSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "wevity-contests")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><div class="tit">공모전</div></body></html>`))
	}))
	defer server.Close()

	doc, err := fastHTTPSource(0).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "공모전", doc.Find(".tit").Text())
}

func TestHTTPSource_DecodesEUCKR(t *testing.T) {
	body, err := korean.EUCKR.NewEncoder().String(`<html><body><div class="tit">공공데이터 공모전</div></body></html>`)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	doc, err := fastHTTPSource(0).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "공공데이터 공모전", doc.Find(".tit").Text())
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<html><body><p>ok</p></body></html>`))
	}))
	defer server.Close()

	log := logger.Nop()
	src := NewHTTPSource(HTTPConfig{MaxRetries: 3, RetryInterval: time.Millisecond}, log)

	doc, err := src.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Find("p").Text())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int64(2), log.Metrics().Counter("http.retries"))
}

func TestHTTPSource_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := fastHTTPSource(2).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPSource_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := fastHTTPSource(3).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "404"), "error = %v", err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPSource_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fastHTTPSource(3).Fetch(ctx, server.URL)
	require.Error(t, err)
}
