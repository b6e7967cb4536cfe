package crawlbase

import (
	"net/url"
	"strings"
)

// Param is a single option passed to an endpoint.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of options. The order callers add keys in is the
// order they appear on the wire.
type Params []Param

// NewParams builds Params from alternating key/value strings. A trailing key
// without a value gets the empty string.
func NewParams(kv ...string) Params {
	p := make(Params, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		v := ""
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		p = p.Set(kv[i], v)
	}
	return p
}

// Get returns the value for key and whether it was present.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Set replaces the value of an existing key in place or appends a new one.
func (p Params) Set(key, value string) Params {
	for i := range p {
		if p[i].Key == key {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Key: key, Value: value})
}

// Del returns a copy of p without any entry for the given keys.
func (p Params) Del(keys ...string) Params {
	out := make(Params, 0, len(p))
	for _, kv := range p {
		drop := false
		for _, k := range keys {
			if kv.Key == k {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, kv)
		}
	}
	return out
}

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// Keys lists the keys in order.
func (p Params) Keys() []string {
	keys := make([]string, len(p))
	for i, kv := range p {
		keys[i] = kv.Key
	}
	return keys
}

// Encode percent-encodes a query component. Spaces become '+'.
func Encode(value string) string {
	return url.QueryEscape(value)
}

// BuildQueryString joins key=Encode(value) pairs with '&'.
func BuildQueryString(pairs Params) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, kv := range pairs {
		parts = append(parts, kv.Key+"="+Encode(kv.Value))
	}
	return strings.Join(parts, "&")
}
