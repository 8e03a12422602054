// Package session keeps the signed-in admin user in an encrypted cookie.
//
// The cookie value is sealed with lib/encoding, so clients can neither
// read nor forge it. Each session carries a random ID that CSRF tokens are
// bound to.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kascribe/contestui"
	"github.com/kascribe/contestui/lib/encoding"
)

// DefaultCookieName is the cookie used when none is configured.
const DefaultCookieName = "session"

// DefaultMaxAge is the session lifetime used when none is configured.
const DefaultMaxAge = 7 * 24 * time.Hour

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("session: no valid session")

// Session is the state stored in the cookie.
type Session struct {
	ID      string         `msgpack:"i"`
	User    contestui.User `msgpack:"u"`
	Expires int64          `msgpack:"e"`
}

// Manager reads and writes session cookies.
type Manager struct {
	enc    *encoding.Encoder
	name   string
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName sets the cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) { m.name = name }
}

// WithMaxAge sets the session lifetime.
func WithMaxAge(d time.Duration) Option {
	return func(m *Manager) { m.maxAge = d }
}

// WithSecure marks the cookie Secure.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// NewManager creates a manager sealing cookies with key.
func NewManager(key []byte, opts ...Option) (*Manager, error) {
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		enc:    enc,
		name:   DefaultCookieName,
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// New starts a session for u with a fresh random ID.
func (m *Manager) New(u contestui.User) Session {
	return Session{
		ID:      uuid.NewString(),
		User:    u,
		Expires: m.now().Add(m.maxAge).Unix(),
	}
}

// Load returns the session carried by r.
func (m *Manager) Load(r *http.Request) (Session, error) {
	ck, err := r.Cookie(m.name)
	if err != nil {
		return Session{}, ErrNoSession
	}
	var s Session
	if err := m.enc.Open(ck.Value, &s); err != nil {
		return Session{}, errors.Join(ErrNoSession, err)
	}
	if m.now().Unix() > s.Expires {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Save writes s to the response cookie.
func (m *Manager) Save(w http.ResponseWriter, s Session) error {
	tok, err := m.enc.Seal(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(s.Expires, 0),
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// ID returns the session ID carried by r, or "" when there is none. It is
// the session function handed to csrf.Issuer.Protect.
func (m *Manager) ID(r *http.Request) string {
	s, err := m.Load(r)
	if err != nil {
		return ""
	}
	return s.ID
}
