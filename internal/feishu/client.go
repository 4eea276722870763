// Package feishu is a client for the Feishu/Lark open platform docx v1 API.
package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/roboco-io/larkdocx/internal/logger"
)

const (
	// DefaultBaseURL is the Feishu open platform host.
	DefaultBaseURL = "https://open.feishu.cn"
	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of retries after the first attempt.
	DefaultMaxRetries = 3

	apiPrefix = "/open-apis"

	// Envelope codes meaning the tenant token was rejected.
	codeTokenInvalid = 99991663
	codeTokenMissing = 99991661
)

// Config holds the app credentials and transport settings.
type Config struct {
	AppID      string
	AppSecret  string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client talks to the docx API on behalf of one app.
type Client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	cache      TokenCache
	maxRetries int
	retryBase  time.Duration
	retryMax   time.Duration

	tokenMu sync.Mutex
}

// New creates a client. A nil cache selects an in-process cache.
func New(log *logger.Logger, cfg Config, cache TokenCache) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.AppID = strings.TrimSpace(cfg.AppID)
	cfg.AppSecret = strings.TrimSpace(cfg.AppSecret)
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, errors.New("feishu app credentials not configured (set LARKDOCX_APP_ID and LARKDOCX_APP_SECRET or provide via config)")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cache == nil {
		cache = NewMemoryCache()
	}

	return &Client{
		log:        log.With("client", "FeishuClient", "app_id", cfg.AppID),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
		maxRetries: cfg.MaxRetries,
		retryBase:  500 * time.Millisecond,
		retryMax:   10 * time.Second,
	}, nil
}

// envelope is the common response wrapper.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// call performs an authenticated request and decodes envelope.data into out.
// A rejected token is dropped from the cache and the call is repeated once.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	for i := 0; ; i++ {
		token, err := c.tenantToken(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		raw, err := c.do(ctx, op, method, apiPrefix+path, query, body, token)
		if err != nil {
			if i == 0 && (IsAPIError(err, codeTokenInvalid) || IsAPIError(err, codeTokenMissing)) {
				c.log.Warn("Tenant token rejected, refreshing", "op", op)
				_ = c.cache.Delete(ctx, c.tokenKey())
				continue
			}
			return err
		}

		if out == nil {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s: decode data: %w", op, err)
		}
		return nil
	}
}

// do sends the request with retries and returns the raw body of a successful
// envelope.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, token string) ([]byte, error) {
	backoff := c.retryBase

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, op, method, path, query, body, token)
		if err == nil {
			return raw, nil
		}

		if !isRetryable(err) || attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := jitter(retryAfter(resp, backoff, c.retryMax))

		c.log.Warn("Feishu request retrying",
			"op", op,
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		if err := sleepCtx(ctx, sleepFor); err != nil {
			return nil, err
		}
		backoff *= 2
	}

	return nil, errors.New("unreachable retry loop")
}

func (c *Client) doOnce(ctx context.Context, op, method, path string, query url.Values, body any, token string) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
	}

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	var env envelope
	decoded := json.Unmarshal(raw, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Feishu reports most request errors as 4xx with a regular envelope.
		if decoded && env.Code != 0 && !isRetryableStatus(resp.StatusCode) {
			return resp, raw, &APIError{Code: env.Code, Msg: env.Msg, Op: op}
		}
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if !decoded {
		return resp, raw, fmt.Errorf("%s: malformed response: %s", op, truncate(string(raw), 200))
	}
	if env.Code != 0 {
		return resp, raw, &APIError{Code: env.Code, Msg: env.Msg, Op: op}
	}

	return resp, raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
