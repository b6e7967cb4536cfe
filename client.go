// Package crawlbase is a client for the Crawlbase Crawling, Scraper,
// Screenshots and Leads APIs.
//
// A Client is bound to one endpoint Variant. Each call validates its
// arguments, sends a single request and returns a fresh Result; clients keep
// no per-call state and may be shared between goroutines.
package crawlbase

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const defaultTimeout = 90 * time.Second

// Client talks to one Crawlbase endpoint.
type Client struct {
	token     string
	variant   Variant
	baseURL   string
	transport Transport
	timeout   time.Duration
	debug     bool
	fs        afero.Fs
	tempDir   string
	log       logrus.FieldLogger
}

// call carries the state of a single request through the pipeline.
type call struct {
	method         string
	target         string
	params         Params
	format         string
	screenshotPath string
}

// New creates a client for variant v, which must be one of Crawling, Scraper,
// Screenshots or Leads. The token must not be blank.
func New(token string, v Variant, opts ...Option) (*Client, error) {
	if isBlank(token) {
		return nil, ErrTokenRequired
	}
	if !v.valid() {
		return nil, ErrUnknownVariant
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		token:   token,
		variant: v,
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
		debug:   debugLoggingRequested(),
		fs:      afero.NewOsFs(),
		tempDir: os.TempDir(),
		log:     discard,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.log = c.log.WithFields(logrus.Fields{
		"component": "crawlbase_client",
		"variant":   v.Name,
	})
	if c.transport == nil {
		c.transport = NewRestyTransport(c.timeout, c.log, c.debug)
	}
	return c, nil
}

// NewCrawlingClient creates a client for the Crawling API. Accepts a normal or JavaScript token.
func NewCrawlingClient(token string, opts ...Option) (*Client, error) {
	return New(token, Crawling, opts...)
}

// NewScraperClient creates a client for the Scraper API.
func NewScraperClient(token string, opts ...Option) (*Client, error) {
	return New(token, Scraper, opts...)
}

// NewScreenshotsClient creates a client for the Screenshots API.
func NewScreenshotsClient(token string, opts ...Option) (*Client, error) {
	return New(token, Screenshots, opts...)
}

// Token returns the authentication token.
func (c *Client) Token() string { return c.token }

// Variant returns the endpoint the client is bound to.
func (c *Client) Variant() Variant { return c.variant }

// Get fetches targetURL through the endpoint. params are passed as query
// options; "format" selects JSON decoding where the endpoint allows it, and
// "save_to_path" chooses the screenshot file.
func (c *Client) Get(ctx context.Context, targetURL string, params Params) (*Result, error) {
	return c.execute(ctx, http.MethodGet, targetURL, nil, params)
}

// Post sends data to targetURL through the endpoint. The body is JSON when
// params has format=json and form-encoded otherwise.
func (c *Client) Post(ctx context.Context, targetURL string, data, params Params) (*Result, error) {
	if !c.variant.postAllowed {
		return nil, &UnsupportedOperationError{Message: c.variant.postRejection}
	}
	return c.execute(ctx, http.MethodPost, targetURL, data, params)
}

func (c *Client) execute(ctx context.Context, method, target string, data, params Params) (*Result, error) {
	if isBlank(target) {
		return nil, c.variant.missingTarget
	}

	cl := &call{method: method, target: target}
	if c.variant.acceptsParams {
		cl.params = params.Clone()
	}
	cl.format = c.variant.effectiveFormat(cl.params)
	if c.variant.prepare != nil {
		if err := c.variant.prepare(c, cl); err != nil {
			return nil, err
		}
	}

	endpoint := c.baseURL + c.variant.Path
	rawURL := BuildGetURL(endpoint, c.token, c.variant.targetKey, target, cl.params)

	req := newGetRequest(rawURL)
	if method == http.MethodPost {
		var err error
		if req, err = newPostRequest(rawURL, data, cl.format); err != nil {
			return nil, err
		}
	}

	log := c.log.WithFields(logrus.Fields{
		"method": method,
		"target": target,
	})
	log.Debug("Sending request")

	start := time.Now()
	resp, err := c.transport.Do(ctx, req)
	requestDuration.WithLabelValues(c.variant.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(c.variant.Name, method, "error").Inc()
		log.WithError(err).Error("Request failed")
		return nil, &TransportError{Method: method, URL: endpoint, Err: err}
	}
	requestsTotal.WithLabelValues(c.variant.Name, method, strconv.Itoa(resp.StatusCode)).Inc()

	res, err := c.extract(log, cl, resp)
	if err != nil {
		log.WithError(err).Error("Failed to decode response")
		return nil, err
	}
	log.WithField("status_code", res.StatusCode).Debug("Request completed")
	return res, nil
}

// extract turns a response into a Result following the call's format.
func (c *Client) extract(log logrus.FieldLogger, cl *call, resp *Response) (*Result, error) {
	res := &Result{
		Variant:        c.variant.Name,
		StatusCode:     resp.StatusCode,
		ScreenshotPath: cl.screenshotPath,
	}
	if c.variant.urlFromTarget {
		res.URL = cl.target
	}

	if cl.format == FormatJSON {
		obj, body, err := decodeJSONBody(resp.Body)
		if err != nil {
			return nil, err
		}
		res.Body = body
		c.extractMetadata(log, c.variant.fromJSON, jsonFields{obj: obj}, res)
		return res, nil
	}

	c.extractMetadata(log, c.variant.fromHeaders, headerFields(resp.Header), res)
	if c.variant.readBody == nil {
		res.Body = string(resp.Body)
		return res, nil
	}
	body, err := c.variant.readBody(c, cl, resp.Body)
	if err != nil {
		return nil, err
	}
	res.Body = body
	return res, nil
}

// extractMetadata runs fn and discards its error: metadata is best effort.
func (c *Client) extractMetadata(log logrus.FieldLogger, fn extractFunc, src fieldSource, res *Result) {
	if fn == nil {
		return
	}
	if err := fn(src, res); err != nil {
		log.WithError(err).Debug("Ignoring unusable response metadata")
	}
	if len(res.MissingMetadata) > 0 {
		log.WithField("missing", res.MissingMetadata).Debug("Response metadata incomplete")
	}
}
