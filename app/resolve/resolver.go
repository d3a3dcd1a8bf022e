package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vkoselev/feedharvest/app/domain"
)

// Rule resolves a feed link to its destination URL. Rules are pure functions
// of the fetched page content; for a fixed page body the result is
// deterministic.
type Rule interface {
	Resolve(ctx context.Context, r *Resolver, link string) (string, error)
}

// Resolver maps a feed link's registrable domain to a resolution rule and
// applies it. Links of domains without a rule fail with ErrUnsupportedDomain.
type Resolver struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	rules      map[string]Rule
}

func NewResolver(httpClient *http.Client, userAgent string, timeout time.Duration) *Resolver {
	r := &Resolver{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
		rules:      make(map[string]Rule),
	}
	registerDefaultRules(r)
	return r
}

// Register binds a rule to a registrable domain, replacing any existing rule.
func (r *Resolver) Register(dom string, rule Rule) {
	r.rules[dom] = rule
}

func (r *Resolver) Resolve(ctx context.Context, link string) (string, error) {
	dom, err := domain.Registrable(link)
	if err != nil {
		return "", fmt.Errorf("failed to determine link domain: %w", err)
	}

	rule, ok := r.rules[dom]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDomain, dom)
	}

	return rule.Resolve(ctx, r, link)
}

// fetchPage downloads a page body with the resolver's short timeout.
func (r *Resolver) fetchPage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// followRedirects issues a GET against url and returns the URL the server
// ultimately redirects to.
func (r *Resolver) followRedirects(ctx context.Context, url string) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to follow redirect: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return resp.Request.URL.String(), nil
}
