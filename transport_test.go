package crawlbase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestyTransport_GetAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "token=t1&url=https%3A%2F%2Fexample.com&format=json", r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"original_status":"200","pc_status":"200","url":"https://example.com/","body":"<html></html>"}`))
	}))
	defer srv.Close()

	c, err := NewCrawlingClient("t1", WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	res, err := c.Get(context.Background(), "https://example.com", NewParams("format", "json"))
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "<html></html>", res.Body)
	assert.Equal(t, "https://example.com/", res.URL)
}

func TestRestyTransport_RawHeadersAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("original_status", "503")
		w.Header().Set("cb_status", "503")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c, err := NewCrawlingClient("t1", WithBaseURL(srv.URL))
	require.NoError(t, err)

	res, err := c.Get(context.Background(), "https://example.com", nil)
	require.NoError(t, err, "non-2xx statuses are reported, not raised")
	assert.Equal(t, 503, res.StatusCode)
	assert.Equal(t, "upstream down", res.Body)
	assert.Equal(t, "503", res.OriginalStatus)
	assert.Equal(t, "503", res.CrawlbaseStatus)
}

func TestRestyTransport_PostAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "utf-8", r.Header.Get("charset"))
		assert.EqualValues(t, 13, r.ContentLength)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "q=x+y&n=42&z=", string(body))
		_, _ = w.Write([]byte("posted"))
	}))
	defer srv.Close()

	c, err := NewCrawlingClient("t1", WithBaseURL(srv.URL), WithLogger(logrus.New()), WithDebugLogging(false))
	require.NoError(t, err)

	res, err := c.Post(context.Background(), "https://example.com/form", NewParams("q", "x y", "n", "42", "z", ""), nil)
	require.NoError(t, err)
	assert.Equal(t, "posted", res.Body)
}

func TestRestyTransport_ContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewCrawlingClient("t1", WithBaseURL(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Get(ctx, "https://example.com", nil)
	var te *TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
