package domain

import (
	"strconv"
	"time"

	"github.com/zenzer0s/crawlbase"
)

// Record is one Crawlbase call as kept in the history store.
type Record struct {
	// UserID is who made the call: the Telegram user ID, or 0 for the CLI.
	UserID int64 `json:"user_id"`

	// Variant is the endpoint name (crawling, scraper, screenshots, leads).
	Variant string `json:"variant"`

	// Target is the requested URL, or the domain for leads.
	Target string `json:"target"`

	StatusCode        int    `json:"status_code"`
	OriginalStatus    string `json:"original_status,omitempty"`
	CrawlbaseStatus   string `json:"crawlbase_status,omitempty"`
	URL               string `json:"url,omitempty"`
	RemainingRequests int    `json:"remaining_requests,omitempty"`
	Success           bool   `json:"success,omitempty"`
	ScreenshotURL     string `json:"screenshot_url,omitempty"`
	ScreenshotPath    string `json:"screenshot_path,omitempty"`

	// Body is the response body as returned by the client.
	Body string `json:"body"`

	// Timestamp is when the call completed.
	Timestamp time.Time `json:"timestamp"`
}

// NewRecord captures res for userID.
func NewRecord(userID int64, target string, res *crawlbase.Result) Record {
	return Record{
		UserID:            userID,
		Variant:           res.Variant,
		Target:            target,
		StatusCode:        res.StatusCode,
		OriginalStatus:    res.OriginalStatus,
		CrawlbaseStatus:   res.CrawlbaseStatus,
		URL:               res.URL,
		RemainingRequests: res.RemainingRequests,
		Success:           res.Success,
		ScreenshotURL:     res.ScreenshotURL,
		ScreenshotPath:    res.ScreenshotPath,
		Body:              res.Body,
		Timestamp:         time.Now(),
	}
}

// Status is the most useful status to show: the Crawlbase status when known,
// the HTTP status otherwise.
func (r Record) Status() string {
	if r.CrawlbaseStatus != "" {
		return r.CrawlbaseStatus
	}
	return strconv.Itoa(r.StatusCode)
}
