package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/draft"
)

// NewClient builds an http.Client honouring cfg's timeout and redirect
// limit. Redirect targets are validated like the original URL.
func NewClient(cfg HTTPConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", draft.ErrTooManyRedirects, len(via))
			}
			if err := ValidateURL(req.URL.String(), cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
}

// Page is a fetched HTML document.
type Page struct {
	// FinalURL is the URL after redirects.
	FinalURL string
	Body     []byte
}

// Get performs one GET of urlStr with cfg's user agent and body limit.
// Non-2xx responses are returned as *retry.HTTPError so callers can decide
// whether to retry.
func Get(ctx context.Context, client *http.Client, cfg HTTPConfig, urlStr string) (*Page, error) {
	if err := ValidateURL(urlStr, cfg.DenyPrivateIPs); err != nil {
		return nil, retry.Permanent(err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: failed to create request: %v", draft.ErrInvalidURL, err))
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		var netErr net.Error
		timedOut := errors.Is(reqCtx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
		if timedOut && ctx.Err() == nil {
			return nil, retry.Transient(fmt.Errorf("%w: request exceeded %v", draft.ErrTimeout, cfg.Timeout))
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > cfg.MaxBodySize {
		return nil, retry.Permanent(fmt.Errorf("%w: response exceeds %d bytes", draft.ErrBodyTooLarge, cfg.MaxBodySize))
	}

	final := urlStr
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return &Page{FinalURL: final, Body: body}, nil
}
