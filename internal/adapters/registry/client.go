// Package registry provides a resilient REST client for the repository
// hosting API: token rotation, conditional requests, rate-limit headers,
// and capped retries for transient failures
package registry

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	perr "progdex/internal/platform/errors"
	"progdex/internal/platform/logger"
)

const (
	baseURLDefault     = "https://api.github.com"
	archiveBaseDefault = "https://github.com"
	defaultTimeout     = 10 * time.Second
	defaultUA          = "progdex"
	defaultMaxRetry    = 5
	defaultRetryBase   = 500 * time.Millisecond

	acceptJSON = "application/vnd.github+json"
	acceptRaw  = "application/vnd.github.raw"
)

// Options configures the Client
type Options struct {
	BaseURL        string
	ArchiveBaseURL string
	UserAgent      string
	Timeout        time.Duration

	// Comma separated tokens passed in from CLI or config
	// Empty means tokenless which is very low quota so not recommended
	TokensCSV string

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client issues hosting-API requests with rotation over configured tokens
type Client struct {
	http   *http.Client
	opts   Options
	tokens []string
	cur    atomic.Int32
	log    logger.Logger
	now    func() time.Time
	sleep  func(time.Duration)
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.ArchiveBaseURL == "" {
		o.ArchiveBaseURL = archiveBaseDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	var toks []string
	if s := strings.TrimSpace(o.TokensCSV); s != "" {
		for t := range strings.SplitSeq(s, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				toks = append(toks, t)
			}
		}
	}
	return &Client{
		http:   &http.Client{Timeout: o.Timeout},
		opts:   o,
		tokens: toks,
		log:    *logger.Named("registry"),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// getToken returns the next token in a round robin rotation
func (c *Client) getToken() string {
	n := int(c.cur.Add(1))
	if len(c.tokens) == 0 {
		return ""
	}
	return c.tokens[n%len(c.tokens)]
}

// request is one attemptable call; url is absolute so raw-content hosts
// outside BaseURL ride the same retry and auth path
type request struct {
	method string
	url    string
	etag   string
	accept string
}

// Do issues an API request relative to BaseURL with auth headers, etag,
// retries, and rate limit handling. etagIn adds If-None-Match when set
func (c *Client) Do(ctx context.Context, method, path string, etagIn string) (*http.Response, error) {
	return c.do(ctx, request{method: method, url: c.opts.BaseURL + path, etag: etagIn, accept: acceptJSON})
}

func (c *Client) do(ctx context.Context, rq request) (*http.Response, error) {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, rq.method, rq.url, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "registry new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		if rq.accept != "" {
			req.Header.Set("Accept", rq.accept)
		}
		if rq.etag != "" {
			req.Header.Set("If-None-Match", rq.etag)
		}
		if tok := c.getToken(); tok != "" {
			req.Header.Set("Authorization", "token "+tok)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "registry do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("registry transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		// Always log lightweight response metadata
		rem, hasRem, reset, retryAfter := parseRateHeaders(resp.Header)
		c.log.Debug().
			Str("method", rq.method).
			Str("url", rq.url).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Int("rate_remaining", rem).
			Time("rate_reset", reset).
			Int("retry_after_s", retryAfter).
			Msg("registry http response")

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			return resp, nil
		case http.StatusNotModified:
			return resp, nil
		case http.StatusUnauthorized:
			_ = drainAndClose(resp.Body)
			return nil, perr.Unauthorizedf("registry rejected credentials")
		case http.StatusNotFound, http.StatusGone, http.StatusUnavailableForLegalReasons:
			_ = drainAndClose(resp.Body)
			return nil, perr.NotFoundf("registry resource missing (status %d)", resp.StatusCode)
		case http.StatusForbidden, http.StatusTooManyRequests:
			// A 403 with remaining quota and no Retry-After is a permission
			// refusal, not a rate limit; flag it, never retry it
			if resp.StatusCode == http.StatusForbidden && hasRem && rem > 0 && retryAfter == 0 {
				_ = drainAndClose(resp.Body)
				return nil, perr.Forbiddenf("registry access denied")
			}
			wait := computeWait(rem, reset, retryAfter, c.now())
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeTooManyRequests, "registry rate limited")
			}
			c.log.Warn().Dur("sleep", wait).Msg("registry rate limited backing off")
			_ = drainAndClose(resp.Body)
			c.sleep(wait)
			attempts++
			continue
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// transient server side
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeUnavailable, "registry transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("registry transient error retrying")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.InvalidArgf("registry rejected request: %s", string(body))
		default:
			// read a small tail for diagnostics then return
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(perr.ErrorCodeUnknown, "registry unexpected status %d body %s", resp.StatusCode, string(body))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
