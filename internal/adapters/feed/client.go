// internal/adapters/feed/client.go
package feed

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"listings_admin/internal/adapters/observability"
)

const maxFeedBytes = 64 << 20

type Client struct {
	url      string
	hc       *http.Client
	rl       *rate.Limiter
	maxBytes int64
}

func New(url string, rps int) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("feed URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		url:      url,
		hc:       &http.Client{Timeout: 60 * time.Second},
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		maxBytes: maxFeedBytes,
	}, nil
}

// FetchProperties downloads the feed and returns one element tree per <property>.
func (c *Client) FetchProperties(ctx context.Context) ([]map[string]any, error) {
	body, err := c.get(ctx, c.url)
	if err != nil {
		return nil, err
	}
	return ParseProperties(bytes.NewReader(body))
}

// ---- Internals ----

var (
	ErrNotFound     = errors.New("feed: not found")
	ErrUnauthorized = errors.New("feed: unauthorized")
	ErrTooLarge     = errors.New("feed: response too large")
)

// get performs a GET with client-side rate limiting and retries, returning the body.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/xml, text/xml")
		req.Header.Set("User-Agent", "listings-admin/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("feed", "properties", 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			// one byte past the limit tells a full feed from a truncated one
			b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
			resp.Body.Close()
			observability.ObserveExternal("feed", "properties", resp.StatusCode, time.Since(start))
			if err != nil {
				return nil, fmt.Errorf("read feed: %w", err)
			}
			if int64(len(b)) > c.maxBytes {
				return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, c.maxBytes)
			}
			return b, nil

		case http.StatusNotFound:
			resp.Body.Close()
			observability.ObserveExternal("feed", "properties", resp.StatusCode, time.Since(start))
			return nil, ErrNotFound

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			observability.ObserveExternal("feed", "properties", resp.StatusCode, time.Since(start))
			return nil, ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			observability.ObserveExternal("feed", "properties", resp.StatusCode, time.Since(start))
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			observability.ObserveExternal("feed", "properties", resp.StatusCode, time.Since(start))
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return nil, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff: 200ms doubling per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
