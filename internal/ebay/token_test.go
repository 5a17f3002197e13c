// internal/ebay/token_test.go
package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftsgiver/internal/common/config"
	"giftsgiver/internal/common/database"
	apperrors "giftsgiver/internal/common/errors"
	"giftsgiver/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

// newTokenServer returns a fake OAuth endpoint that counts exchanges and
// hands out sequentially numbered tokens.
func newTokenServer(t *testing.T, calls *int32, expiresIn int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "https://api.ebay.com/oauth/api_scope", r.PostForm.Get("scope"))

		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": fmt.Sprintf("token-%d", n),
			"expires_in":   expiresIn,
			"token_type":   "Application Access Token",
		})
	}))
}

func tokenTestConfig(srv *httptest.Server) config.EBayConfig {
	return config.EBayConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Scope:        "https://api.ebay.com/oauth/api_scope",
		TokenURL:     srv.URL,
		Timeout:      5000,
	}
}

// ==========================
// Memory Cache Tests
// ==========================

func TestMemoryTokenCacheReuse(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, 7200)
	defer srv.Close()

	cache := NewMemoryTokenCache(tokenTestConfig(srv), logger.NewTestLogger(t))

	tok1, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok1)

	tok2, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok2)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoryTokenCacheRefreshInsideMargin(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, 7200)
	defer srv.Close()

	current := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryTokenCache(tokenTestConfig(srv), logger.NewTestLogger(t))
	cache.now = func() time.Time { return current }

	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)

	// Still valid just outside the margin.
	current = current.Add(7200*time.Second - 61*time.Second)
	tok, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Inside the 60 second margin the token counts as expired.
	current = current.Add(2 * time.Second)
	tok, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", tok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestMemoryTokenCacheDefaultLifetime(t *testing.T) {
	var calls int32
	// expires_in omitted: the default lifetime applies.
	srv := newTokenServer(t, &calls, 0)
	defer srv.Close()

	current := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryTokenCache(tokenTestConfig(srv), logger.NewTestLogger(t))
	cache.now = func() time.Time { return current }

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	current = current.Add(1 * time.Hour)
	_, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoryTokenCacheAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	cache := NewMemoryTokenCache(tokenTestConfig(srv), logger.NewTestLogger(t))

	_, err := cache.Token(context.Background())
	require.Error(t, err)

	se := apperrors.AsStandardError(err)
	require.NotNil(t, se)
	assert.Equal(t, apperrors.ErrCodeAuthFailed, se.Code)
	assert.Contains(t, se.Details, "401")
}

// ==========================
// Redis Cache Tests
// ==========================

func TestRedisTokenCacheSharesToken(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, 7200)
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	log := logger.NewTestLogger(t)
	cacheA := NewRedisTokenCache(tokenTestConfig(srv), rdb, log)
	cacheB := NewRedisTokenCache(tokenTestConfig(srv), rdb, log)

	tok, err := cacheA.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)

	// A second replica reads the shared key instead of exchanging again.
	tok, err = cacheB.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// The stored TTL already accounts for the expiry margin.
	assert.Equal(t, 7200*time.Second-60*time.Second, mr.TTL(sharedTokenKey))
}

func TestRedisTokenCacheRefreshAfterExpiry(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls, 7200)
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	cache := NewRedisTokenCache(tokenTestConfig(srv), rdb, logger.NewTestLogger(t))

	_, err = cache.Token(context.Background())
	require.NoError(t, err)

	mr.FastForward(7200 * time.Second)

	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", tok)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
