package scraper

import (
	"context"

	"github.com/zenzer0s/crawlbase"
	"github.com/zenzer0s/crawlbase/internal/domain"
)

// Scraper is what the CLI and the bot need from the Crawlbase APIs.
type Scraper interface {
	// Crawl fetches a page through the Crawling API. javascript selects the
	// JavaScript token so the page is rendered in a browser first.
	Crawl(ctx context.Context, userID int64, url string, params crawlbase.Params, javascript bool) (*crawlbase.Result, error)

	// CrawlPost sends data to a page through the Crawling API.
	CrawlPost(ctx context.Context, userID int64, url string, data, params crawlbase.Params, javascript bool) (*crawlbase.Result, error)

	// Scrape fetches structured data through the Scraper API.
	Scrape(ctx context.Context, userID int64, url string, params crawlbase.Params) (*crawlbase.Result, error)

	// Screenshot captures a page through the Screenshots API.
	Screenshot(ctx context.Context, userID int64, url string, params crawlbase.Params) (*crawlbase.Result, error)

	// Leads looks up e-mail leads for a domain.
	Leads(ctx context.Context, userID int64, domain string) (*crawlbase.Result, error)

	// History lists the calls a user made, newest first.
	History(ctx context.Context, userID int64) ([]domain.Record, error)

	// Forget removes one call from the history.
	Forget(ctx context.Context, userID int64, variant, target string) error
}
