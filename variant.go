package crawlbase

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// FormatJSON is the value of the "format" option that selects JSON responses.
const FormatJSON = "json"

const keySaveToPath = "save_to_path"

// DefaultBaseURL is the Crawlbase API host.
const DefaultBaseURL = "https://api.crawlbase.com"

// ResponseFormat says how a variant decodes responses.
type ResponseFormat int

const (
	// ResponseCallerChosen follows the caller's "format" option.
	ResponseCallerChosen ResponseFormat = iota
	// ResponseJSON always decodes a JSON envelope.
	ResponseJSON
	// ResponseRaw always passes the body through and reads metadata from headers.
	ResponseRaw
)

// Variant describes one Crawlbase endpoint: where it lives, which methods it
// accepts, and how its responses are decoded.
type Variant struct {
	Name string
	Path string

	targetKey     string
	missingTarget error
	postAllowed   bool
	postRejection string
	format        ResponseFormat
	acceptsParams bool
	// urlFromTarget fills Result.URL with the requested URL.
	urlFromTarget bool

	fromJSON    extractFunc
	fromHeaders extractFunc

	// prepare runs before the request is built and may rewrite the call.
	prepare func(c *Client, cl *call) error
	// readBody replaces the raw-path body passthrough.
	readBody func(c *Client, cl *call, raw []byte) (string, error)
}

// PostAllowed reports whether the endpoint accepts POST.
func (v Variant) PostAllowed() bool { return v.postAllowed }

// Format returns the variant's response format policy.
func (v Variant) Format() ResponseFormat { return v.format }

// valid reports whether v is fully described. Only the predefined variants are.
func (v Variant) valid() bool {
	if v.targetKey == "" || v.missingTarget == nil {
		return false
	}
	return v.postAllowed || v.postRejection != ""
}

// effectiveFormat resolves the format used for decoding one call.
func (v Variant) effectiveFormat(params Params) string {
	switch v.format {
	case ResponseJSON:
		return FormatJSON
	case ResponseRaw:
		return ""
	}
	f, _ := params.Get(keyFormat)
	return f
}

// The four Crawlbase endpoints.
var (
	Crawling = Variant{
		Name:          "crawling",
		Path:          "/",
		targetKey:     keyURL,
		missingTarget: ErrURLRequired,
		postAllowed:   true,
		format:        ResponseCallerChosen,
		acceptsParams: true,
		fromJSON:      crawlingMetadata,
		fromHeaders:   crawlingMetadata,
	}

	Scraper = Variant{
		Name:          "scraper",
		Path:          "/scraper",
		targetKey:     keyURL,
		missingTarget: ErrURLRequired,
		postRejection: msgScraperGetOnly,
		format:        ResponseJSON,
		acceptsParams: true,
		urlFromTarget: true,
		fromJSON:      scraperMetadata,
	}

	Screenshots = Variant{
		Name:          "screenshots",
		Path:          "/screenshots",
		targetKey:     keyURL,
		missingTarget: ErrURLRequired,
		postRejection: msgScreenshotsGetOnly,
		format:        ResponseRaw,
		acceptsParams: true,
		urlFromTarget: true,
		fromHeaders:   screenshotsMetadata,
		prepare:       prepareScreenshot,
		readBody:      saveScreenshot,
	}

	Leads = Variant{
		Name:          "leads",
		Path:          "/leads",
		targetKey:     keyDomain,
		missingTarget: ErrDomainRequired,
		postRejection: msgLeadsGetOnly,
		format:        ResponseRaw,
	}
)

// --- Screenshots ---

var screenshotPathPattern = regexp.MustCompile(`(?i)^.+\.(jpg|jpeg)$`)

// prepareScreenshot resolves where the image goes. save_to_path is consumed
// here and never sent to the API.
func prepareScreenshot(c *Client, cl *call) error {
	path, ok := cl.params.Get(keySaveToPath)
	if ok {
		cl.params = cl.params.Del(keySaveToPath)
	} else {
		path = filepath.Join(c.tempDir, uuid.NewString()+".jpg")
	}
	if !screenshotPathPattern.MatchString(path) {
		return ErrInvalidScreenshotPath
	}
	cl.screenshotPath = path
	return nil
}

// saveScreenshot writes the image to disk and returns the written bytes as base64.
func saveScreenshot(c *Client, cl *call, raw []byte) (string, error) {
	if err := writeFile(c.fs, cl.screenshotPath, raw); err != nil {
		return "", err
	}
	written, err := afero.ReadFile(c.fs, cl.screenshotPath)
	if err != nil {
		return "", fmt.Errorf("read back screenshot %s: %w", cl.screenshotPath, err)
	}
	return base64.StdEncoding.EncodeToString(written), nil
}

func writeFile(fs afero.Fs, path string, data []byte) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create screenshot %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close screenshot %s: %w", path, closeErr)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("write screenshot %s: %w", path, err)
	}
	return nil
}
