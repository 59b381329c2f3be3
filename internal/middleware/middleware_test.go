package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/cinema-seat-booking/internal/config"
	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

func venueContext(e *echo.Echo, method, target, venue string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/venues/:id/chart")
	c.SetParamNames("id")
	c.SetParamValues(venue)
	return c, rec
}

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestBuildRateKey_Strategies(t *testing.T) {
	e := echo.New()
	c, _ := venueContext(e, http.MethodGet, "/v1/venues/v1/chart", "v1")
	c.Set(ContextSubject, "box-office")

	cases := map[string]string{
		"ip":             "rl:ip:10.0.0.1",
		"user":           "rl:user:box-office",
		"route":          "rl:route:GET /v1/venues/:id/chart",
		"venue":          "rl:venue:v1",
		"ip_route":       "rl:ip:10.0.0.1:route:GET /v1/venues/:id/chart",
		"ip_user_route":  "rl:ip:10.0.0.1:user:box-office:route:GET /v1/venues/:id/chart",
		"ip_venue_route": "rl:ip:10.0.0.1:venue:v1:route:GET /v1/venues/:id/chart",
		"":               "rl:ip:10.0.0.1:venue:v1:route:GET /v1/venues/:id/chart",
	}
	for strategy, want := range cases {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
		assert.Equal(t, want, buildRateKey(cfg, c), strategy)
	}
}

func TestIdentity_Defaults(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", subject(c))
	assert.Equal(t, "-", venueID(c))
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(59), int64(0)})
	require.True(t, ok)
	assert.True(t, allowed)
	assert.Equal(t, int64(59), remaining)
	assert.Equal(t, int64(0), retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{"0", "0", "1500"})
	require.True(t, ok)
	assert.False(t, allowed)
	assert.Equal(t, int64(1500), retry)
	assert.Equal(t, 2, retryAfterSeconds(retry))

	_, _, _, ok = parseBucketResult("nope")
	assert.False(t, ok)
}

func TestNewTokenBucket_DisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	c, rec := venueContext(e, http.MethodGet, "/v1/venues/v1/chart", "v1")

	h := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil)(ok)
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestCacheKey_ChangesWithRevisionAndQuery(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache"}

	c1, _ := venueContext(e, http.MethodGet, "/v1/venues/v1/chart", "v1")
	c2, _ := venueContext(e, http.MethodGet, "/v1/venues/v1/chart?highlight=GIC0001", "v1")
	c3, _ := venueContext(e, http.MethodGet, "/v1/venues/v2/chart", "v2")

	k := cacheKey(cfg, c1, 1)
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, k)
	assert.Equal(t, k, cacheKey(cfg, c1, 1))
	assert.NotEqual(t, k, cacheKey(cfg, c1, 2))
	assert.NotEqual(t, k, cacheKey(cfg, c2, 1))
	assert.NotEqual(t, k, cacheKey(cfg, c3, 1))
}

func TestPayload_EncodeDecode(t *testing.T) {
	hdr := http.Header{"Content-Type": {"text/plain; charset=UTF-8"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte("S C R E E N"))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, got)
	assert.Equal(t, "S C R E E N", string(body))

	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
	assert.False(t, ok)
}

func TestCaptureWriter_RespectsLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))

	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(6), cw.size)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestJWTAuthAndRole(t *testing.T) {
	e := echo.New()
	tok, err := utils.NewAccessToken("s3cret", "box-office", RoleBoxOffice, time.Hour)
	require.NoError(t, err)
	other, err := utils.NewAccessToken("s3cret", "someone", "GUEST", time.Hour)
	require.NoError(t, err)
	forged, err := utils.NewAccessToken("wrong", "box-office", RoleBoxOffice, time.Hour)
	require.NoError(t, err)

	h := JWTAuth("s3cret")(RequireRole(true, RoleBoxOffice)(ok))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"forged", "Bearer " + forged.Token, http.StatusUnauthorized},
		{"wrong role", "Bearer " + other.Token, http.StatusForbidden},
		{"box office", "Bearer " + tok.Token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/venues", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			require.NoError(t, h(e.NewContext(req, rec)))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestJWTAuth_DisabledWithoutSecret(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	h := JWTAuth("")(RequireRole(false, RoleBoxOffice)(ok))
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodPost, "/v1/venues", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	mw := RequestLogger(zap.New(core))

	c, _ := venueContext(e, http.MethodGet, "/v1/venues/v1/chart", "v1")
	require.NoError(t, mw(ok)(c))

	c, _ = venueContext(e, http.MethodGet, "/v1/venues/nope/chart", "nope")
	require.NoError(t, mw(func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
	})(c))

	c, rec := venueContext(e, http.MethodGet, "/v1/venues/v1/chart", "v1")
	require.NoError(t, mw(func(echo.Context) error { return echo.ErrInternalServerError })(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "v1", entries[0].ContextMap()["venue_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}
