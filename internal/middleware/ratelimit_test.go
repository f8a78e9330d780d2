package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
)

func rateLimitTestConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       10,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            time.Minute,
		KeyStrategy:    "route",
		Prefix:         "rl",
	}
}

// anyArgs ignores script argument values; the timestamp argument
// changes every run.
func anyArgs(expected, actual []interface{}) error { return nil }

// anyScriptArgs matches the arity of the five ARGV values the token
// bucket script receives; redismock compares argument counts before
// consulting the custom matcher, so the expectation must have the
// same length as the real call. Values are ignored by anyArgs.
var anyScriptArgs = []interface{}{"", "", "", "", ""}

func TestTokenBucketAllowsRequest(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := rateLimitTestConfig()

	mock.CustomMatch(anyArgs).
		ExpectEvalSha(tokenBucketScript.Hash(), []string{"rl:route:GET /v1/movies"}, anyScriptArgs...).
		SetVal([]interface{}{int64(1), int64(9), int64(0)})

	mw := NewTokenBucket(cfg, rdb)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c := browseContext("/v1/movies", "")
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Equal(t, "10", c.Response().Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", c.Response().Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenBucketBlocksWhenEmpty(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := rateLimitTestConfig()

	mock.CustomMatch(anyArgs).
		ExpectEvalSha(tokenBucketScript.Hash(), []string{"rl:route:GET /v1/movies"}, anyScriptArgs...).
		SetVal([]interface{}{int64(0), int64(0), int64(700)})

	mw := NewTokenBucket(cfg, rdb)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c := browseContext("/v1/movies", "")
	require.NoError(t, h(c))
	assert.False(t, called)
	assert.Equal(t, http.StatusTooManyRequests, c.Response().Status)
	assert.Equal(t, "1", c.Response().Header().Get("Retry-After"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenBucketFailsOpenOnRedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := rateLimitTestConfig()

	mock.CustomMatch(anyArgs).
		ExpectEvalSha(tokenBucketScript.Hash(), []string{"rl:route:GET /v1/movies"}, anyScriptArgs...).
		RedisNil()

	mw := NewTokenBucket(cfg, rdb)
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, h(browseContext("/v1/movies", "")))
	assert.True(t, called)
}
