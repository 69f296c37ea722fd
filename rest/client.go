// Package rest is the single point of outbound calls to the logistics
// API: bearer injection, bounded timeouts, transport retries and
// uniform error normalization live here and nowhere else.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sensesdx/portalkit/core"
)

const defaultTimeout = 2 * time.Second

type Config struct {
	BaseURL string
	Cookies core.CookieStore

	// Optional config
	Timeout time.Duration
	Retry   *RetryPolicy
	Logger  *zap.Logger

	// OnUnauthorized fires when a request is still unauthorized after
	// the token-clearing retry. The session controller registers its
	// forced-logout transition here.
	OnUnauthorized func()
}

type Client struct {
	baseURL string
	http    *http.Client
	cookies core.CookieStore
	retry   RetryPolicy
	log     *zap.Logger

	onUnauthorized func()

	// replaced in tests to observe backoff without waiting
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, core.ErrBaseURLRequired
	}
	if cfg.Cookies == nil {
		return nil, core.ErrCookieStoreRequired
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	retry := DefaultRetryPolicy()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           &http.Client{Timeout: timeout},
		cookies:        cfg.Cookies,
		retry:          retry,
		log:            log,
		onUnauthorized: cfg.OnUnauthorized,
		sleep:          sleepContext,
	}, nil
}

type tokenKey struct{}

// WithToken overrides the cookie-store token for a single call. The
// gateway uses this to act on behalf of the browser session that made
// the request.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func (c *Client) token(ctx context.Context) string {
	if tok, ok := ctx.Value(tokenKey{}).(string); ok {
		return tok
	}
	tok, _ := c.cookies.Get(core.TokenCookie)
	return tok
}

// do issues one logical request: transport failures are retried per
// policy, a first 401 clears the stored token and earns exactly one
// immediate retry, and every failure comes back as *core.APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	attempt := 0 // transport retries used
	retried401 := false
	suppressToken := false

	for {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err != nil {
			return 0, nil, fmt.Errorf("build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if !suppressToken {
			if tok := c.token(ctx); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt < c.retry.MaxRetries && c.retry.Retryable(err) {
				attempt++
				delay := c.retry.Backoff(attempt)
				c.log.Debug("request failed, retrying",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("attempt", attempt),
					zap.Duration("delay", delay),
					zap.Error(err))
				if serr := c.sleep(ctx, delay); serr != nil {
					return 0, nil, core.NormalizeError(err)
				}
				continue
			}
			c.log.Warn("request failed, retries exhausted",
				zap.String("method", method),
				zap.String("path", path),
				zap.Error(err))
			return 0, nil, core.NormalizeError(err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return 0, nil, core.NormalizeError(err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			if !retried401 {
				// stale token: drop it and retry once bare
				retried401 = true
				suppressToken = true
				c.cookies.Remove(core.TokenCookie, "/")
				c.log.Info("unauthorized response, clearing token and retrying once",
					zap.String("path", path))
				continue
			}
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return resp.StatusCode, respBody, &core.APIError{
				StatusCode: resp.StatusCode,
				Message:    messageOr(respBody, core.ErrUnauthorized.Error()),
			}
		}

		return resp.StatusCode, respBody, nil
	}
}

// expect decodes the response into out when status matches want;
// anything else raises the server-provided message.
func (c *Client) expect(status int, body []byte, want int, out any) error {
	if status != want {
		return &core.APIError{
			StatusCode: status,
			Message:    messageOr(body, http.StatusText(status)),
		}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &core.APIError{StatusCode: status, Message: "unexpected response from server"}
	}
	return nil
}

// messageOr extracts the server's message body when one exists.
func messageOr(body []byte, fallback string) string {
	var snapshot struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &snapshot); err == nil {
		if snapshot.Message != "" {
			return snapshot.Message
		}
		if snapshot.Error != "" {
			return snapshot.Error
		}
	}
	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
