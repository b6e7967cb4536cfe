package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenzer0s/crawlbase"
	"github.com/zenzer0s/crawlbase/internal/config"
	"github.com/zenzer0s/crawlbase/internal/domain"
	"github.com/zenzer0s/crawlbase/internal/storage"
)

// routeTransport answers by endpoint path and remembers the tokens it saw.
type routeTransport struct {
	mu     sync.Mutex
	tokens []string
	routes map[string]*crawlbase.Response
}

func (rt *routeTransport) Do(_ context.Context, req *crawlbase.Request) (*crawlbase.Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	rt.tokens = append(rt.tokens, u.Query().Get("token"))
	rt.mu.Unlock()
	if resp, ok := rt.routes[u.Path]; ok {
		return resp, nil
	}
	return nil, errors.New("no route for " + u.Path)
}

// memRepo is an in-memory storage.Repository.
type memRepo struct {
	mu      sync.Mutex
	records map[string]domain.Record
	failing bool
}

func newMemRepo() *memRepo { return &memRepo{records: map[string]domain.Record{}} }

func key(userID int64, variant, target string) string {
	return fmt.Sprintf("%d|%s|%s", userID, variant, target)
}

func (m *memRepo) SaveRecord(_ context.Context, rec domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("disk full")
	}
	m.records[key(rec.UserID, rec.Variant, rec.Target)] = rec
	return nil
}

func (m *memRepo) GetRecordsByUser(_ context.Context, userID int64) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Record
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) DeleteRecord(_ context.Context, userID int64, variant, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key(userID, variant, target))
	return nil
}

func (m *memRepo) Close() error { return nil }

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func newTestService(t *testing.T, cfg config.Config, repo *memRepo) (*Service, *routeTransport) {
	t.Helper()
	shotHeaders := http.Header{}
	shotHeaders.Set("success", "true")
	shotHeaders.Set("remaining_requests", "3")
	rt := &routeTransport{routes: map[string]*crawlbase.Response{
		"/":            {StatusCode: 200, Header: http.Header{}, Body: []byte("<html></html>")},
		"/scraper":     {StatusCode: 200, Header: http.Header{}, Body: []byte(`{"remaining_requests":"10","body":{"title":"T"}}`)},
		"/screenshots": {StatusCode: 200, Header: shotHeaders, Body: []byte("jpeg")},
		"/leads":       {StatusCode: 200, Header: http.Header{}, Body: []byte(`{"leads":[]}`)},
	}}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.test"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	// A nil *memRepo must not become a non-nil interface.
	var r storage.Repository
	if repo != nil {
		r = repo
	}
	s, err := NewService(cfg, r, testLogger(), crawlbase.WithTransport(rt), crawlbase.WithFs(afero.NewMemMapFs()))
	require.NoError(t, err)
	return s, rt
}

func TestNewService_RequiresToken(t *testing.T) {
	_, err := NewService(config.Config{BaseURL: "https://api.test", Timeout: time.Second}, nil, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, crawlbase.ErrTokenRequired))
}

func TestService_RecordsEveryEndpoint(t *testing.T) {
	repo := newMemRepo()
	s, _ := newTestService(t, config.Config{Token: "normal"}, repo)
	ctx := context.Background()

	res, err := s.Crawl(ctx, 1, "https://example.com", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", res.Body)

	res, err = s.Scrape(ctx, 1, "https://example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"T"}`, res.Body)
	assert.Equal(t, 10, res.RemainingRequests)

	res, err = s.Screenshot(ctx, 1, "https://example.com", crawlbase.NewParams("save_to_path", "/shots/a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "/shots/a.jpg", res.ScreenshotPath)
	assert.True(t, res.Success)

	res, err = s.Leads(ctx, 1, "example.com")
	require.NoError(t, err)
	assert.Equal(t, `{"leads":[]}`, res.Body)

	history, err := s.History(ctx, 1)
	require.NoError(t, err)
	variants := make([]string, 0, len(history))
	for _, r := range history {
		variants = append(variants, r.Variant)
	}
	assert.ElementsMatch(t, []string{"crawling", "scraper", "screenshots", "leads"}, variants)

	require.NoError(t, s.Forget(ctx, 1, "leads", "example.com"))
	history, err = s.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestService_CrawlPost(t *testing.T) {
	repo := newMemRepo()
	s, rt := newTestService(t, config.Config{Token: "normal", JSToken: "js"}, repo)

	res, err := s.CrawlPost(context.Background(), 2, "https://example.com/form",
		crawlbase.NewParams("q", "1"), nil, true)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", res.Body)
	assert.Equal(t, []string{"js"}, rt.tokens)
	assert.Len(t, repo.records, 1)
}

func TestService_FailedCallsAreNotRecorded(t *testing.T) {
	repo := newMemRepo()
	s, _ := newTestService(t, config.Config{Token: "normal"}, repo)

	_, err := s.Crawl(context.Background(), 1, "  ", nil, false)
	assert.True(t, errors.Is(err, crawlbase.ErrURLRequired))
	assert.Empty(t, repo.records)
}

func TestService_StorageFailureDoesNotFailCall(t *testing.T) {
	repo := newMemRepo()
	repo.failing = true
	s, _ := newTestService(t, config.Config{Token: "normal"}, repo)

	res, err := s.Crawl(context.Background(), 1, "https://example.com", nil, false)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
}

func TestService_JavaScriptToken(t *testing.T) {
	s, rt := newTestService(t, config.Config{Token: "normal", JSToken: "js"}, nil)
	ctx := context.Background()

	_, err := s.Crawl(ctx, 0, "https://example.com", nil, true)
	require.NoError(t, err)
	_, err = s.Crawl(ctx, 0, "https://example.com", nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"js", "normal"}, rt.tokens)

	noJS, _ := newTestService(t, config.Config{Token: "normal"}, nil)
	_, err = noJS.Crawl(ctx, 0, "https://example.com", nil, true)
	assert.ErrorIs(t, err, ErrNoJavaScriptToken)
}

func TestService_NoRepository(t *testing.T) {
	s, _ := newTestService(t, config.Config{Token: "normal"}, nil)

	_, err := s.Crawl(context.Background(), 0, "https://example.com", nil, false)
	require.NoError(t, err)

	_, err = s.History(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoHistory)
	assert.ErrorIs(t, s.Forget(context.Background(), 0, "crawling", "x"), ErrNoHistory)
}
