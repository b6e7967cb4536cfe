package crawlbase

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
)

// fieldSource is where metadata is read from: the decoded JSON object on the
// JSON path, the response headers on the raw path.
type fieldSource interface {
	Field(name string) (string, bool)
}

type jsonFields struct{ obj gjson.Result }

func (j jsonFields) Field(name string) (string, bool) {
	v := j.obj.Get(name)
	if !v.Exists() || v.Type == gjson.Null {
		return "", false
	}
	return v.String(), true
}

type headerFields http.Header

func (h headerFields) Field(name string) (string, bool) {
	vs := http.Header(h).Values(name)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// extractFunc fills metadata on res. It returns an error only for values that
// were present but unusable; the caller logs and discards it.
type extractFunc func(src fieldSource, res *Result) error

// decodeJSONBody parses raw as a JSON object and returns it with the text of
// its "body" member. Structured bodies are returned as compact JSON text.
func decodeJSONBody(raw []byte) (gjson.Result, string, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, "", &DecodeError{Reason: "invalid JSON"}
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return gjson.Result{}, "", &DecodeError{Reason: "expected a JSON object"}
	}
	body := obj.Get("body")
	if !body.Exists() || body.Type == gjson.Null {
		return gjson.Result{}, "", &DecodeError{Reason: `missing "body" field`}
	}
	if body.IsObject() || body.IsArray() {
		return obj, gjson.Get(body.Raw, "@ugly").Raw, nil
	}
	return obj, body.String(), nil
}

// stringField reads name from src, recording it as missing when absent.
func stringField(src fieldSource, res *Result, name string) string {
	v, ok := src.Field(name)
	if !ok {
		res.MissingMetadata = append(res.MissingMetadata, name)
	}
	return v
}

// intField reads a numeric field. Absent fields are recorded as missing;
// present but non-numeric ones also produce a ParseError.
func intField(src fieldSource, res *Result, name string) (int, error) {
	v, ok := src.Field(name)
	if !ok {
		res.MissingMetadata = append(res.MissingMetadata, name)
		return 0, nil
	}
	n, err := ParseRemainingRequests(v)
	if err != nil {
		res.MissingMetadata = append(res.MissingMetadata, name)
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Field = name
		}
		return 0, err
	}
	return n, nil
}

// ParseRemainingRequests parses the remaining_requests value sent by the API.
func ParseRemainingRequests(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{Field: "remaining_requests", Value: v, Err: err}
	}
	return n, nil
}

func crawlingMetadata(src fieldSource, res *Result) error {
	res.OriginalStatus = stringField(src, res, "original_status")
	if v, ok := src.Field("cb_status"); ok {
		res.CrawlbaseStatus = v
	} else {
		res.CrawlbaseStatus = stringField(src, res, "pc_status")
	}
	res.URL = stringField(src, res, "url")
	return nil
}

func scraperMetadata(src fieldSource, res *Result) error {
	n, err := intField(src, res, "remaining_requests")
	res.RemainingRequests = n

	// The scraper wraps the crawling response, so these usually come along too.
	if v, ok := src.Field("original_status"); ok {
		res.OriginalStatus = v
	}
	if v, ok := src.Field("cb_status"); ok {
		res.CrawlbaseStatus = v
	} else if v, ok := src.Field("pc_status"); ok {
		res.CrawlbaseStatus = v
	}
	if v, ok := src.Field("url"); ok {
		res.URL = v
	}
	return err
}

func screenshotsMetadata(src fieldSource, res *Result) error {
	n, err := intField(src, res, "remaining_requests")
	res.RemainingRequests = n
	res.Success = stringField(src, res, "success") == "true"
	res.ScreenshotURL = stringField(src, res, "screenshot_url")
	return err
}
