package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"giftsgiver/internal/common/config"
	"giftsgiver/internal/common/database"
	apperrors "giftsgiver/internal/common/errors"
	"giftsgiver/internal/common/logger"
)

const (
	// Tokens are treated as expired this long before their real expiry.
	tokenExpiryMargin = 60 * time.Second

	// Used when the token endpoint omits expires_in.
	defaultExpiresIn = 7200 * time.Second

	sharedTokenKey = "giftsgiver:ebay:app_token"
)

// TokenCache hands out a valid application bearer token, refreshing it
// via the client-credentials flow when the cached one is absent or
// inside the expiry margin.
type TokenCache interface {
	Token(ctx context.Context) (string, error)
}

// exchanger performs the client-credentials exchange shared by both
// cache implementations.
type exchanger struct {
	cfg        config.EBayConfig
	httpClient *http.Client
	logger     logger.Logger
}

func newExchanger(cfg config.EBayConfig, log logger.Logger) exchanger {
	return exchanger{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: config.GetDuration(cfg.Timeout)},
		logger:     log,
	}
}

// exchange POSTs grant_type=client_credentials with Basic auth and
// returns the token and its lifetime.
func (e *exchanger) exchange(ctx context.Context) (string, time.Duration, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("scope", e.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", 0, apperrors.NewAuthTransportError(err)
	}

	authB64 := base64.StdEncoding.EncodeToString([]byte(e.cfg.ClientID + ":" + e.cfg.ClientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+authB64)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", 0, apperrors.NewAuthTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", 0, apperrors.NewAuthError(resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", 0, apperrors.NewAuthTransportError(err)
	}

	lifetime := defaultExpiresIn
	if tr.ExpiresIn > 0 {
		lifetime = time.Duration(tr.ExpiresIn) * time.Second
	}

	e.logger.Debug("token refreshed", map[string]interface{}{
		"expiresIn": lifetime.Seconds(),
	})

	return tr.AccessToken, lifetime, nil
}

// MemoryTokenCache is the single-slot in-process cache. The mutex
// serializes check-then-refresh so concurrent requests cannot trigger a
// refresh storm.
type MemoryTokenCache struct {
	exchanger

	mu     sync.Mutex
	token  string
	expiry time.Time

	now func() time.Time
}

func NewMemoryTokenCache(cfg config.EBayConfig, log logger.Logger) *MemoryTokenCache {
	return &MemoryTokenCache{
		exchanger: newExchanger(cfg, log),
		now:       time.Now,
	}
}

func (c *MemoryTokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry.Add(-tokenExpiryMargin)) {
		return c.token, nil
	}

	token, lifetime, err := c.exchange(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiry = c.now().Add(lifetime)
	return token, nil
}

// RedisTokenCache shares one token across replicas. The TTL already has
// the expiry margin subtracted, so any value read from Redis is usable.
// Concurrent refreshes on a cold key are benign idempotent overwrites.
type RedisTokenCache struct {
	exchanger

	rdb *database.RedisClient
	key string
}

func NewRedisTokenCache(cfg config.EBayConfig, rdb *database.RedisClient, log logger.Logger) *RedisTokenCache {
	return &RedisTokenCache{
		exchanger: newExchanger(cfg, log),
		rdb:       rdb,
		key:       sharedTokenKey,
	}
}

func (c *RedisTokenCache) Token(ctx context.Context) (string, error) {
	token, err := c.rdb.Get(ctx, c.key)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && err != redis.Nil {
		// A degraded cache should not fail the request; fall through to
		// a direct exchange.
		c.logger.Warn("token cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	token, lifetime, err := c.exchange(ctx)
	if err != nil {
		return "", err
	}

	ttl := lifetime - tokenExpiryMargin
	if ttl <= 0 {
		ttl = lifetime
	}
	if err := c.rdb.Set(ctx, c.key, token, ttl); err != nil {
		c.logger.Warn("token cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return token, nil
}
