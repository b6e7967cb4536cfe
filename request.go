package crawlbase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Reserved option keys. The client always supplies them itself.
const (
	keyToken  = "token"
	keyURL    = "url"
	keyDomain = "domain"
	keyFormat = "format"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// BuildGetURL assembles baseURL?token=..&<targetKey>=..&<params...>.
// Any token, url or targetKey entries in params are dropped first.
func BuildGetURL(baseURL, token, targetKey, target string, params Params) string {
	pairs := make(Params, 0, len(params)+2)
	pairs = append(pairs, Param{Key: keyToken, Value: token}, Param{Key: targetKey, Value: target})
	pairs = append(pairs, params.Del(keyToken, keyURL, targetKey)...)
	return baseURL + "?" + BuildQueryString(pairs)
}

// BuildPostPayload serializes data as a JSON object when format is "json" and
// as a form body otherwise.
func BuildPostPayload(data Params, format string) (contentType string, body []byte, err error) {
	if format == FormatJSON {
		obj := make(map[string]string, len(data))
		for _, kv := range data {
			obj[kv.Key] = kv.Value
		}
		body, err = json.Marshal(obj)
		if err != nil {
			return "", nil, fmt.Errorf("marshal post data: %w", err)
		}
		return contentTypeJSON, body, nil
	}
	return contentTypeForm, []byte(BuildQueryString(data)), nil
}

// newPostRequest builds the outgoing POST with the headers the API expects.
func newPostRequest(rawURL string, data Params, format string) (*Request, error) {
	contentType, body, err := BuildPostPayload(data, format)
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	h.Set("Content-Type", contentType)
	h.Set("charset", "utf-8")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Cache-Control", "no-cache")
	return &Request{Method: http.MethodPost, URL: rawURL, Header: h, Body: body}, nil
}

func newGetRequest(rawURL string) *Request {
	return &Request{Method: http.MethodGet, URL: rawURL, Header: make(http.Header)}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
