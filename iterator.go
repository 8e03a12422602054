package contestui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
)

// DefaultLimit is the page size used when none is configured.
const DefaultLimit = 10

// Route describes one paginated request.
type Route struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

// RouteFunc maps a page index and page size to a request.
type RouteFunc func(page, limit int) Route

// QueryRoute returns a RouteFunc that GETs base with page and limit query
// parameters added, keeping any query base already has.
//
//	contestui.QueryRoute("/api/contests/4/entries")(2, 10)
//	// Route{URL: "/api/contests/4/entries?limit=10&page=2", Method: "GET"}
func QueryRoute(base string) RouteFunc {
	return func(page, limit int) Route {
		u, err := url.Parse(base)
		if err != nil {
			return Route{URL: base, Method: "GET"}
		}
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()
		return Route{URL: u.String(), Method: "GET"}
	}
}

// Page is one batch returned by PageIterator.Next.
//
// Done is a size heuristic: it is true when the batch held fewer than
// limit items. A source whose size is an exact multiple of the limit ends
// with a full page (Done false) followed by an empty one (Done true).
type Page[T any] struct {
	Value []T
	Done  bool
}

// IteratorOption configures a PageIterator.
type IteratorOption func(*iteratorConfig)

type iteratorConfig struct {
	limit   int
	fetcher Fetcher
}

// WithLimit sets the page size. Non-positive values keep DefaultLimit.
func WithLimit(limit int) IteratorOption {
	return func(c *iteratorConfig) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithFetcher sets the transport used to load pages.
func WithFetcher(f Fetcher) IteratorOption {
	return func(c *iteratorConfig) {
		c.fetcher = f
	}
}

// PageIterator fetches successive fixed-size pages from a paginated JSON
// source. Each page body must be a JSON array of T.
//
// The page counter advances before each fetch, whether or not the fetch
// succeeds: a failed page is skipped, and the next call asks for the page
// after it. Only one Next may be outstanding; a concurrent call returns
// ErrIteratorBusy and leaves the counter alone.
type PageIterator[T any] struct {
	route   RouteFunc
	limit   int
	fetcher Fetcher

	mu   sync.Mutex
	page int
	busy bool
}

// NewPageIterator creates an iterator starting at page 0.
func NewPageIterator[T any](route RouteFunc, opts ...IteratorOption) (*PageIterator[T], error) {
	if route == nil {
		return nil, ErrNilRoute
	}
	cfg := iteratorConfig{limit: DefaultLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.fetcher == nil {
		cfg.fetcher = &HTTPFetcher{}
	}
	return &PageIterator[T]{
		route:   route,
		limit:   cfg.limit,
		fetcher: cfg.fetcher,
	}, nil
}

// Limit returns the page size.
func (it *PageIterator[T]) Limit() int { return it.limit }

// Page returns the index of the next page to request.
func (it *PageIterator[T]) Page() int {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.page
}

// Next fetches the next page.
func (it *PageIterator[T]) Next(ctx context.Context) (Page[T], error) {
	it.mu.Lock()
	if it.busy {
		it.mu.Unlock()
		return Page[T]{}, ErrIteratorBusy
	}
	it.busy = true
	page := it.page
	it.page++
	it.mu.Unlock()

	defer func() {
		it.mu.Lock()
		it.busy = false
		it.mu.Unlock()
	}()

	body, err := it.fetcher.Fetch(ctx, it.route(page, it.limit))
	if err != nil {
		return Page[T]{}, err
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return Page[T]{}, fmt.Errorf("%w: page %d: %v", ErrMalformedResponse, page, err)
	}
	return Page[T]{Value: items, Done: len(items) < it.limit}, nil
}
