// internal/adapters/cms/client.go
package cms

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/adapters/observability"
	"github.com/kenshomedia-ltd/gds-optimised-sub001/internal/domain"
)

type Client struct {
	base  string
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

func New(base, token string, rps int) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("CMS base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("CMS base URL: %w", err)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:  base,
		hc:    &http.Client{Timeout: 20 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) ListCasinos(ctx context.Context, page, size int) (domain.CollectionPage, error) {
	return c.listCollection(ctx, "casinos", page, size)
}

func (c *Client) ListGames(ctx context.Context, page, size int) (domain.CollectionPage, error) {
	return c.listCollection(ctx, "games", page, size)
}

// GetTranslations tries the single-type endpoint first, then the plural one
// older deployments expose.
func (c *Client) GetTranslations(ctx context.Context, locale string) (map[string]any, error) {
	q := url.Values{"locale": {locale}}
	return c.getSingle(ctx, "translations", []string{
		c.endpoint("translation", q),
		c.endpoint("translations", q),
	})
}

func (c *Client) GetNavigation(ctx context.Context, locale string) (map[string]any, error) {
	q := url.Values{"locale": {locale}, "populate": {"deep"}}
	return c.getSingle(ctx, "navigation", []string{
		c.endpoint("navigation", q),
		c.endpoint("layout", q),
	})
}

// ---- Internals ----

var (
	ErrNotFound     = fmt.Errorf("cms: %w", domain.ErrNotFound)
	ErrUnauthorized = errors.New("cms: unauthorized")
	ErrForbidden    = errors.New("cms: forbidden")
)

type collectionResponse struct {
	Data []map[string]any `json:"data"`
	Meta struct {
		Pagination struct {
			Page      int `json:"page"`
			PageSize  int `json:"pageSize"`
			PageCount int `json:"pageCount"`
			Total     int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type singleResponse struct {
	Data map[string]any `json:"data"`
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.base + "/api/" + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) listCollection(ctx context.Context, collection string, page, size int) (domain.CollectionPage, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 100
	}
	q := url.Values{
		"populate":             {"*"},
		"pagination[page]":     {strconv.Itoa(page)},
		"pagination[pageSize]": {strconv.Itoa(size)},
		"sort":                 {"id:asc"},
		"publicationState":     {"live"},
	}
	var out collectionResponse
	if err := c.get(ctx, collection, c.endpoint(collection, q), &out); err != nil {
		return domain.CollectionPage{}, err
	}
	pg := domain.CollectionPage{
		Items:     out.Data,
		Page:      out.Meta.Pagination.Page,
		PageCount: out.Meta.Pagination.PageCount,
	}
	if pg.Page == 0 {
		pg.Page = page
	}
	return pg, nil
}

func (c *Client) getSingle(ctx context.Context, name string, urls []string) (map[string]any, error) {
	var out singleResponse
	if err := c.getFirst(ctx, name, urls, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, ErrNotFound
	}
	return out.Data, nil
}

func (c *Client) getFirst(ctx context.Context, name string, urls []string, out any) error {
	var last error
	for _, u := range urls {
		if err := c.get(ctx, name, u, out); err != nil {
			if errors.Is(err, ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return err // non-404: stop early
		}
		return nil
	}
	if last != nil {
		return last
	}
	return errors.New("cms: no candidate URL succeeded")
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, name, url string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "gds-portal/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveCMS(name, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveCMS(name, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("cms: decode %s: %w", name, err)
			}
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("cms: remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("cms: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
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

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
