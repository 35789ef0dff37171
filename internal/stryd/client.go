// Package stryd implements the vendor API client: session acquisition, the
// calendar listing, detailed activity retrieval, and FIT binary download.
package stryd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/gitjpk/strydcmd/internal/config"
	"github.com/gitjpk/strydcmd/internal/domain"
)

// Session is the explicit vendor session value. It is acquired on demand and
// discarded when the vendor rejects it; nothing is held in package globals.
type Session struct {
	Token      string
	UserID     string
	AcquiredAt time.Time
}

// Client talks to the Stryd REST API.
type Client struct {
	baseURL  string
	email    string
	password string
	timeout  time.Duration

	httpc   *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*domain.ActivityDetail]
	logger  zerolog.Logger

	mu      sync.Mutex
	session *Session
}

// New constructs a Client from the API configuration.
func New(cfg config.APIConfig, logger zerolog.Logger) *Client {
	c := &Client{
		baseURL:  cfg.BaseURL,
		email:    cfg.Email,
		password: cfg.Password,
		timeout:  cfg.RequestTimeout,
		httpc:    &http.Client{},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		logger:   logger,
	}
	c.breaker = newDetailBreaker(logger)
	return c
}

// Authenticate exchanges credentials for a fresh session token.
func (c *Client) Authenticate(ctx context.Context) (*Session, error) {
	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/email/signin", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: signin: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: signin returned %d", domain.ErrAuth, resp.StatusCode)
	}

	var payload struct {
		Token  string `json:"token"`
		UserID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode signin response: %v", domain.ErrAuth, err)
	}
	if payload.Token == "" {
		return nil, fmt.Errorf("%w: signin response missing token", domain.ErrAuth)
	}

	session := &Session{Token: payload.Token, UserID: payload.UserID, AcquiredAt: time.Now().UTC()}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.logger.Debug().Str("user_id", session.UserID).Msg("vendor session acquired")
	return session, nil
}

// currentSession returns the cached session, authenticating when none is held.
func (c *Client) currentSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session != nil {
		return session, nil
	}
	return c.Authenticate(ctx)
}

// expireSession drops the cached token so the next call re-authenticates.
func (c *Client) expireSession() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

// get performs one authenticated GET. A 401/403 expires the session, retries
// once with a fresh token, and only then surfaces ErrAuth.
func (c *Client) get(ctx context.Context, path string, query map[string]string) (*http.Response, error) {
	resp, err := c.getOnce(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		closeBody(resp)
		c.expireSession()
		if _, err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
		resp, err = c.getOnce(ctx, path, query)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			code := resp.StatusCode
			closeBody(resp)
			return nil, fmt.Errorf("%w: %s returned %d after refresh", domain.ErrAuth, path, code)
		}
	}
	return resp, nil
}

func (c *Client) getOnce(ctx context.Context, path string, query map[string]string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrNetwork, err)
	}

	session, err := c.currentSession(ctx)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	// The vendor expects the non-standard "Bearer:" scheme.
	req.Header.Set("Authorization", "Bearer: "+session.Token)

	q := req.URL.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpc.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: GET %s: %v", domain.ErrNetwork, path, err)
	}
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelReadCloser releases the per-request timeout once the body is closed.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
