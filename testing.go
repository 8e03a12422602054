package contestui

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"

	"github.com/a-h/templ"
)

// TestResult holds rendered output for assertions in tests.
type TestResult struct {
	HTML       string
	StatusCode int
	Headers    http.Header
	Flashes    []Flash
}

// RenderHTML renders c and returns testable output.
//
//	result, err := contestui.RenderHTML(table)
//	if !result.HTMLContains("Load more") {
//	    t.Fatal("missing load-more button")
//	}
func RenderHTML(c templ.Component) (*TestResult, error) {
	return RenderHTMLWithContext(context.Background(), c)
}

// RenderHTMLWithContext is RenderHTML with an explicit context.
func RenderHTMLWithContext(ctx context.Context, c templ.Component) (*TestResult, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, err
	}
	html := buf.String()
	return &TestResult{
		HTML:       html,
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		Flashes:    parseFlashesFromHTML(html),
	}, nil
}

// ServeTest sends a request through h and captures the response. Requests
// carry the X-Requested-With header the page script sets, so handlers that
// branch on IsFetch see a script request.
func ServeTest(h http.Handler, method, target string) *TestResult {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(RequestedWithHeader, "fetch")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	html := rec.Body.String()
	return &TestResult{
		HTML:       html,
		StatusCode: rec.Code,
		Headers:    rec.Header(),
		Flashes:    parseFlashesFromHTML(html),
	}
}

// HTMLContains reports whether the output contains substr.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll reports whether the output contains every substring.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny reports whether the output contains at least one substring.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// Count returns the number of non-overlapping occurrences of substr.
func (r *TestResult) Count(substr string) int {
	return strings.Count(r.HTML, substr)
}

// HasFlash reports whether a toast with the given level and message was rendered.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasFlashLevel reports whether any toast of the given level was rendered.
func (r *TestResult) HasFlashLevel(level string) bool {
	for _, f := range r.Flashes {
		if f.Level == level {
			return true
		}
	}
	return false
}

// IsOK reports a 200 status.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus reports whether the status equals code.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

var toastPattern = regexp.MustCompile(`<div class="toast toast-([^"]+)"[^>]*>([^<]*)</div>`)

func parseFlashesFromHTML(html string) []Flash {
	var flashes []Flash
	for _, m := range toastPattern.FindAllStringSubmatch(html, -1) {
		flashes = append(flashes, Flash{
			Level:   unescapeHTML(m[1]),
			Message: unescapeHTML(m[2]),
		})
	}
	return flashes
}

var htmlUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#34;", `"`,
	"&#39;", "'",
	"&quot;", `"`,
)

func unescapeHTML(s string) string {
	return htmlUnescaper.Replace(s)
}
