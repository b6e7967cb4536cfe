package crawlbase

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Request is the wire request handed to a Transport.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is what a Transport returns: the status, headers and the fully read body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport sends one request and returns the complete response.
// Cancellation and timeouts are the transport's responsibility.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// RestyTransport is the default Transport, backed by a resty client with
// retries disabled.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a transport whose requests are bounded by timeout.
// When debug is true every request and response is dumped through log at debug level.
func NewRestyTransport(timeout time.Duration, log logrus.FieldLogger, debug bool) *RestyTransport {
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(log).
		SetDebug(debug)
	return &RestyTransport{client: c}
}

// Do implements Transport.
func (t *RestyTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	r := t.client.R().SetContext(ctx)
	for k, vs := range req.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	res, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
		Body:       res.Body(),
	}, nil
}
