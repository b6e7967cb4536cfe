package crawlbase

// Result is the normalized outcome of one call. A new Result is returned by
// every call and is never modified afterwards.
//
// Metadata fields are best effort: when the response does not carry a field,
// or carries one that cannot be parsed, the field keeps its zero value and its
// name is listed in MissingMetadata.
type Result struct {
	// Variant is the name of the endpoint that produced the result.
	Variant string `json:"variant"`

	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"status_code"`

	// Body is the page HTML/text, JSON text, or base64 image data for screenshots.
	Body string `json:"body"`

	// OriginalStatus is the status the target site returned to Crawlbase.
	OriginalStatus string `json:"original_status,omitempty"`

	// CrawlbaseStatus is cb_status, or pc_status when cb_status is absent.
	CrawlbaseStatus string `json:"crawlbase_status,omitempty"`

	// URL is the crawled URL after redirects. Defaults to the requested URL.
	URL string `json:"url,omitempty"`

	// RemainingRequests is the quota left on the plan (scraper, screenshots).
	RemainingRequests int `json:"remaining_requests,omitempty"`

	// Success reports the screenshots endpoint's success header.
	Success bool `json:"success,omitempty"`

	// ScreenshotURL is set when the screenshot was stored remotely.
	ScreenshotURL string `json:"screenshot_url,omitempty"`

	// ScreenshotPath is the local file the screenshot was written to.
	ScreenshotPath string `json:"screenshot_path,omitempty"`

	// MissingMetadata names metadata fields that could not be extracted.
	MissingMetadata []string `json:"missing_metadata,omitempty"`
}
