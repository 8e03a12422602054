package csrf

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/kascribe/contestui/lib/encoding"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer([]byte("test-key"), time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	return iss
}

func TestIssueVerify(t *testing.T) {
	iss := newTestIssuer(t)

	tok, err := iss.Issue("session-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		session string
		want    error
	}{
		{"valid", tok, "session-1", nil},
		{"other session", tok, "session-2", ErrSessionMismatch},
		{"empty", "", "session-1", ErrMissingToken},
		{"garbage", "nope", "session-1", encoding.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iss.Verify(tt.token, tt.session)
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIssueUniqueTokens(t *testing.T) {
	iss := newTestIssuer(t)
	a, _ := iss.Issue("s")
	b, _ := iss.Issue("s")
	if a == b {
		t.Error("two tokens for the same session should differ")
	}
}

func TestVerifyExpired(t *testing.T) {
	iss := newTestIssuer(t)
	tok, _ := iss.Issue("s")

	iss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if err := iss.Verify(tok, "s"); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() = %v, want ErrTokenExpired", err)
	}
}

func TestProtect(t *testing.T) {
	iss := newTestIssuer(t)
	tok, _ := iss.Issue("s")

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := iss.Protect(func(*http.Request) string { return "s" }, ok)

	tests := []struct {
		name   string
		method string
		cookie string
		header string
		status int
	}{
		{"get passes", http.MethodGet, "", "", http.StatusNoContent},
		{"delete without token", http.MethodDelete, "", "", http.StatusForbidden},
		{"delete header only", http.MethodDelete, "", tok, http.StatusForbidden},
		{"delete mismatch", http.MethodDelete, tok, "other", http.StatusForbidden},
		{"delete valid", http.MethodDelete, tok, tok, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/thing", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(HeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestProtectSetsCookieOnGet(t *testing.T) {
	iss := newTestIssuer(t)
	h := iss.Protect(func(*http.Request) string { return "s" }, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			found = c
		}
	}
	if found == nil {
		t.Fatal("expected ftok cookie on GET")
	}
	if err := iss.Verify(found.Value, "s"); err != nil {
		t.Errorf("issued cookie does not verify: %v", err)
	}
}

func TestCookieToken(t *testing.T) {
	jar, _ := cookiejar.New(nil)
	u, _ := url.Parse("http://admin.example/")
	jar.SetCookies(u, []*http.Cookie{{Name: CookieName, Value: "tok-123"}})

	got, err := CookieToken{Jar: jar, URL: u}.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if got != "tok-123" {
		t.Errorf("Token() = %q, want tok-123", got)
	}

	empty, _ := cookiejar.New(nil)
	got, _ = CookieToken{Jar: empty, URL: u}.Token()
	if got != "" {
		t.Errorf("Token() on empty jar = %q, want empty", got)
	}
}
