package contestui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kascribe/contestui/lib/csrf"
)

// RequestedWithHeader marks API calls made by the admin UI.
const RequestedWithHeader = "X-Requested-With"

// Fetcher loads the raw body for a route.
type Fetcher interface {
	Fetch(ctx context.Context, route Route) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, route Route) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, route Route) ([]byte, error) {
	return f(ctx, route)
}

// HTTPFetcher loads pages over HTTP the way the admin UI's API client does:
// it marks the request with X-Requested-With: fetch, attaches the CSRF
// header when a token source is set, and forwards the session cookies.
//
// Any non-2xx status is returned as a *StatusError; transport failures wrap
// ErrFetchFailed.
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// BaseURL is used to resolve relative route URLs.
	BaseURL string
	// Token supplies the CSRF token, if any.
	Token csrf.TokenSource
	// Cookies are sent with every request.
	Cookies []*http.Cookie
}

// Fetch performs the request described by route.
func (f *HTTPFetcher) Fetch(ctx context.Context, route Route) ([]byte, error) {
	return f.Send(ctx, route.Method, route.URL, nil)
}

// Send performs a request with an optional JSON body, using the same
// headers, cookies and error handling as Fetch. It is how the admin pages
// issue mutations such as deleting an entry.
func (f *HTTPFetcher) Send(ctx context.Context, method, rawURL string, body any) ([]byte, error) {
	target, err := f.resolve(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if method == "" {
		method = http.MethodGet
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode body: %w", ErrFetchFailed, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set(RequestedWithHeader, "fetch")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if f.Token != nil {
		tok, err := f.Token.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: csrf token: %w", ErrFetchFailed, err)
		}
		if tok != "" {
			req.Header.Set(csrf.HeaderName, tok)
		}
	}
	for _, c := range f.Cookies {
		req.AddCookie(c)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, URL: target}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return data, nil
}

// GetJSON fetches rawURL and decodes the body into v.
func (f *HTTPFetcher) GetJSON(ctx context.Context, rawURL string, v any) error {
	data, err := f.Send(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (f *HTTPFetcher) resolve(raw string) (string, error) {
	if f.BaseURL == "" {
		return raw, nil
	}
	base, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
