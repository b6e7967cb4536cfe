package crawlbase

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_RoundTrips(t *testing.T) {
	values := []string{
		"",
		"plain",
		"a b",
		"a&b=c",
		"https://example.com/path?q=1&r=two#frag",
		"100% sure+",
		"ünïcödé ✓ 日本語",
		"~*'()!",
	}
	for _, v := range values {
		decoded, err := url.QueryUnescape(Encode(v))
		require.NoError(t, err, "decoding %q", v)
		assert.Equal(t, v, decoded)
	}
}

func TestEncode_EscapesReserved(t *testing.T) {
	assert.Equal(t, "a%26b%3Dc", Encode("a&b=c"))
	assert.Equal(t, "a+b", Encode("a b"))
	assert.Equal(t, "https%3A%2F%2Fexample.com", Encode("https://example.com"))
}

func TestBuildQueryString(t *testing.T) {
	assert.Equal(t, "", BuildQueryString(nil))
	assert.Equal(t, "", BuildQueryString(Params{}))

	p := NewParams("z", "1", "a", "x y", "m", "")
	assert.Equal(t, "z=1&a=x+y&m=", BuildQueryString(p), "keys keep caller order")
}

func TestParams(t *testing.T) {
	p := NewParams("format", "json", "device", "mobile", "dangling")
	assert.Equal(t, []string{"format", "device", "dangling"}, p.Keys())

	v, ok := p.Get("dangling")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	p = p.Set("format", "html")
	assert.Equal(t, []string{"format", "device", "dangling"}, p.Keys(), "Set replaces in place")
	v, _ = p.Get("format")
	assert.Equal(t, "html", v)

	trimmed := p.Del("device", "dangling")
	assert.Equal(t, []string{"format"}, trimmed.Keys())
	assert.True(t, p.Has("device"), "Del does not modify the receiver")

	clone := p.Clone()
	clone[0].Value = "changed"
	v, _ = p.Get("format")
	assert.Equal(t, "html", v, "Clone is independent")

	assert.Nil(t, Params(nil).Clone())
	assert.False(t, Params(nil).Has("x"))
}
