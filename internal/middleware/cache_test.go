package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
)

func TestCacheEntryRoundTrip(t *testing.T) {
	hdr := http.Header{
		"Content-Type": {"application/json"},
		"X-Custom":     {"a", "b"},
	}
	body := []byte(`{"items":[1,2,3]}`)

	payload, err := encodeEntry(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodeEntry(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestDecodeEntryRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("short")} {
		_, _, _, ok := decodeEntry(bs)
		assert.False(t, ok)
	}
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	k1 := cacheKey(cfg, browseContext("/v1/movies", ""))
	k2 := cacheKey(cfg, browseContext("/v1/movies", "page=2"))
	k3 := cacheKey(cfg, browseContext("/v1/movies", ""))

	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, k3)
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "live")
	})

	c := browseContext("/v1/movies", "")
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-Cache"))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(browseContext("/v1/movies", "")))
	assert.True(t, called)
}

func TestRateKeyStrategies(t *testing.T) {
	base := config.RateLimitConfig{Prefix: "rl", TTL: time.Minute}

	c := browseContext("/v1/movies", "")
	c.Set("user_id", float64(7))

	base.KeyStrategy = "user"
	assert.Equal(t, "rl:user:7", rateKey(base, c))

	base.KeyStrategy = "route"
	assert.Equal(t, "rl:route:GET /v1/movies", rateKey(base, c))

	anon := browseContext("/v1/movies", "")
	base.KeyStrategy = "user"
	assert.Equal(t, "rl:user:anon", rateKey(base, anon))
}

func browseContext(path, query string) echo.Context {
	e := echo.New()
	target := path
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c
}
