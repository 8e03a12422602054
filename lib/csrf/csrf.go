// Package csrf issues and checks the double-submit tokens the admin UI
// sends with every API call.
//
// The server sets the token in the "ftok" cookie; clients echo it in the
// "x-ftok" header. Tokens are signed, bound to a session and expire.
package csrf

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/kascribe/contestui/lib/encoding"
)

// Names of the cookie and header carrying the token.
const (
	CookieName = "ftok"
	HeaderName = "x-ftok"
)

// DefaultTTL is the token lifetime used when none is given.
const DefaultTTL = 12 * time.Hour

var (
	ErrMissingToken    = errors.New("csrf: token missing")
	ErrTokenMismatch   = errors.New("csrf: header does not match cookie")
	ErrTokenExpired    = errors.New("csrf: token expired")
	ErrSessionMismatch = errors.New("csrf: token belongs to another session")
)

// TokenSource supplies the token a client should send.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed token.
type StaticToken string

// Token returns the token itself.
func (s StaticToken) Token() (string, error) { return string(s), nil }

// CookieToken reads the token from a cookie jar, the way a browser script
// reads document.cookie.
type CookieToken struct {
	Jar http.CookieJar
	URL *url.URL
}

// Token returns the jar's ftok cookie, or "" if it is not set.
func (c CookieToken) Token() (string, error) {
	for _, ck := range c.Jar.Cookies(c.URL) {
		if ck.Name == CookieName {
			return ck.Value, nil
		}
	}
	return "", nil
}

type claims struct {
	Session string `msgpack:"s"`
	Nonce   string `msgpack:"n"`
	Expires int64  `msgpack:"e"`
}

// Issuer creates and verifies tokens.
type Issuer struct {
	enc *encoding.Encoder
	ttl time.Duration
	now func() time.Time
}

// NewIssuer creates an issuer signing with key.
func NewIssuer(key []byte, ttl time.Duration) (*Issuer, error) {
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{enc: enc, ttl: ttl, now: time.Now}, nil
}

// Issue returns a fresh token bound to session.
func (i *Issuer) Issue(session string) (string, error) {
	return i.enc.Sign(claims{
		Session: session,
		Nonce:   uuid.NewString(),
		Expires: i.now().Add(i.ttl).Unix(),
	})
}

// Verify checks that token is authentic, unexpired and bound to session.
func (i *Issuer) Verify(token, session string) error {
	if token == "" {
		return ErrMissingToken
	}
	var c claims
	if err := i.enc.Verify(token, &c); err != nil {
		return err
	}
	if i.now().Unix() > c.Expires {
		return ErrTokenExpired
	}
	if c.Session != session {
		return ErrSessionMismatch
	}
	return nil
}

// Protect wraps next with double-submit checking. Safe methods pass through
// and receive a token cookie if they lack one; other methods must carry a
// header equal to the cookie and valid for the request's session, or get a
// 403. sessionOf extracts the session identifier from the request.
func (i *Issuer) Protect(sessionOf func(*http.Request) string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := sessionOf(r)

		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			if ck, err := r.Cookie(CookieName); err != nil || i.Verify(ck.Value, session) != nil {
				if err := i.SetCookie(w, session); err != nil {
					http.Error(w, "Internal error", http.StatusInternalServerError)
					return
				}
			}
			next.ServeHTTP(w, r)
			return
		}

		if err := i.Check(r, session); err != nil {
			http.Error(w, "Forbidden: "+err.Error(), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Check validates the header/cookie pair on r.
func (i *Issuer) Check(r *http.Request, session string) error {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return ErrMissingToken
	}
	header := r.Header.Get(HeaderName)
	if header == "" {
		return ErrMissingToken
	}
	if header != ck.Value {
		return ErrTokenMismatch
	}
	return i.Verify(header, session)
}

// SetCookie issues a token for session and stores it in the ftok cookie.
// The cookie is readable by scripts so they can echo it in the header.
func (i *Issuer) SetCookie(w http.ResponseWriter, session string) error {
	tok, err := i.Issue(session)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
		Expires:  i.now().Add(i.ttl),
	})
	return nil
}
