package crawlbase

// Functional options applied by New. Transport-related options take effect
// only when no custom Transport is supplied.

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Option configures a Client during construction.
type Option func(*Client) error

// WithBaseURL points the client at another API host, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if baseURL == "" {
			return fmt.Errorf("base url cannot be empty")
		}
		c.baseURL = baseURL
		return nil
	}
}

// WithTransport replaces the default resty transport.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return fmt.Errorf("transport cannot be nil")
		}
		c.transport = t
		return nil
	}
}

// WithHTTPTimeout bounds each request made by the default transport.
// Prefer context deadlines; this is a coarse upper bound. Must be > 0.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithLogger sets the logger. The client logs nothing by default.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.log = logger
		return nil
	}
}

// WithFs sets the filesystem screenshots are written to.
func WithFs(fs afero.Fs) Option {
	return func(c *Client) error {
		if fs == nil {
			return fmt.Errorf("fs cannot be nil")
		}
		c.fs = fs
		return nil
	}
}

// WithTempDir sets the directory for screenshots saved without save_to_path.
func WithTempDir(dir string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("temp dir cannot be empty")
		}
		c.tempDir = dir
		return nil
	}
}

// WithDebugLogging makes the default transport dump every request and
// response at debug level. Dumps include the token; keep it out of production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = enabled
		return nil
	}
}

// debugLoggingRequested enables debug dumps without code changes.
func debugLoggingRequested() bool {
	return os.Getenv("CRAWLBASE_DEBUG") == "true"
}
