package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/zenzer0s/crawlbase"
	"github.com/zenzer0s/crawlbase/internal/config"
	"github.com/zenzer0s/crawlbase/internal/domain"
	"github.com/zenzer0s/crawlbase/internal/storage"
)

// ErrNoJavaScriptToken is returned when a JavaScript crawl is requested but
// CRAWLBASE_JS_TOKEN is not configured.
var ErrNoJavaScriptToken = errors.New("javascript crawling requires CRAWLBASE_JS_TOKEN")

// ErrNoHistory is returned by History and Forget when no repository is configured.
var ErrNoHistory = errors.New("history storage is not configured")

// Service implements Scraper on top of the crawlbase clients and records
// every successful call in the repository.
type Service struct {
	crawling    *crawlbase.Client
	jsCrawling  *crawlbase.Client
	scraper     *crawlbase.Client
	screenshots *crawlbase.Client
	leads       *crawlbase.LeadsClient
	repo        storage.Repository
	log         logrus.FieldLogger
}

var _ Scraper = (*Service)(nil)

// NewService builds the endpoint clients from cfg. repo may be nil, in which
// case nothing is recorded. extra options are applied after the ones derived
// from cfg.
func NewService(cfg config.Config, repo storage.Repository, logger logrus.FieldLogger, extra ...crawlbase.Option) (*Service, error) {
	log := logger.WithField("component", "scraper")

	opts := []crawlbase.Option{
		crawlbase.WithBaseURL(cfg.BaseURL),
		crawlbase.WithHTTPTimeout(cfg.Timeout),
		crawlbase.WithLogger(logger),
	}
	opts = append(opts, extra...)

	s := &Service{repo: repo, log: log}
	var err error
	if s.crawling, err = crawlbase.NewCrawlingClient(cfg.Token, opts...); err != nil {
		return nil, fmt.Errorf("crawling client: %w", err)
	}
	if cfg.JSToken != "" {
		if s.jsCrawling, err = crawlbase.NewCrawlingClient(cfg.JSToken, opts...); err != nil {
			return nil, fmt.Errorf("javascript crawling client: %w", err)
		}
	}
	if s.scraper, err = crawlbase.NewScraperClient(cfg.Token, opts...); err != nil {
		return nil, fmt.Errorf("scraper client: %w", err)
	}
	if s.screenshots, err = crawlbase.NewScreenshotsClient(cfg.Token, opts...); err != nil {
		return nil, fmt.Errorf("screenshots client: %w", err)
	}
	if s.leads, err = crawlbase.NewLeadsClient(cfg.Token, opts...); err != nil {
		return nil, fmt.Errorf("leads client: %w", err)
	}

	log.WithField("javascript", s.jsCrawling != nil).Info("Crawlbase clients initialized")
	return s, nil
}

// Crawl implements Scraper.
func (s *Service) Crawl(ctx context.Context, userID int64, url string, params crawlbase.Params, javascript bool) (*crawlbase.Result, error) {
	client, err := s.crawlingClient(javascript)
	if err != nil {
		return nil, err
	}
	res, err := client.Get(ctx, url, params)
	return s.record(ctx, userID, url, res, err)
}

// CrawlPost implements Scraper.
func (s *Service) CrawlPost(ctx context.Context, userID int64, url string, data, params crawlbase.Params, javascript bool) (*crawlbase.Result, error) {
	client, err := s.crawlingClient(javascript)
	if err != nil {
		return nil, err
	}
	res, err := client.Post(ctx, url, data, params)
	return s.record(ctx, userID, url, res, err)
}

func (s *Service) crawlingClient(javascript bool) (*crawlbase.Client, error) {
	if !javascript {
		return s.crawling, nil
	}
	if s.jsCrawling == nil {
		return nil, ErrNoJavaScriptToken
	}
	return s.jsCrawling, nil
}

// Scrape implements Scraper.
func (s *Service) Scrape(ctx context.Context, userID int64, url string, params crawlbase.Params) (*crawlbase.Result, error) {
	res, err := s.scraper.Get(ctx, url, params)
	return s.record(ctx, userID, url, res, err)
}

// Screenshot implements Scraper.
func (s *Service) Screenshot(ctx context.Context, userID int64, url string, params crawlbase.Params) (*crawlbase.Result, error) {
	res, err := s.screenshots.Get(ctx, url, params)
	return s.record(ctx, userID, url, res, err)
}

// Leads implements Scraper.
func (s *Service) Leads(ctx context.Context, userID int64, domainName string) (*crawlbase.Result, error) {
	res, err := s.leads.Get(ctx, domainName)
	return s.record(ctx, userID, domainName, res, err)
}

// History implements Scraper.
func (s *Service) History(ctx context.Context, userID int64) ([]domain.Record, error) {
	if s.repo == nil {
		return nil, ErrNoHistory
	}
	return s.repo.GetRecordsByUser(ctx, userID)
}

// Forget implements Scraper.
func (s *Service) Forget(ctx context.Context, userID int64, variant, target string) error {
	if s.repo == nil {
		return ErrNoHistory
	}
	return s.repo.DeleteRecord(ctx, userID, variant, target)
}

// record stores a successful call. A storage failure is logged, not returned:
// the caller already has the result.
func (s *Service) record(ctx context.Context, userID int64, target string, res *crawlbase.Result, err error) (*crawlbase.Result, error) {
	log := s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"target":  target,
	})
	if err != nil {
		log.WithError(err).Warn("Crawlbase call failed")
		return nil, err
	}
	log = log.WithFields(logrus.Fields{
		"variant":     res.Variant,
		"status_code": res.StatusCode,
	})
	log.Info("Crawlbase call completed")

	if s.repo == nil {
		return res, nil
	}
	if saveErr := s.repo.SaveRecord(ctx, domain.NewRecord(userID, target, res)); saveErr != nil {
		log.WithError(saveErr).Error("Failed to record call in history")
	}
	return res, nil
}
