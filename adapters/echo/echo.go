// Package contestuiecho provides Echo framework integration for the admin UI:
// sessions, CSRF checking, level-gated routes, request logging and JSON
// error bodies.
//
// Mount the API onto an Echo instance:
//
//	e := echo.New()
//	api := contestuiecho.Mount(e, contestuiecho.WithKey(secret))
//	api.GET("/users", listUsers, contestuiecho.RequireLevel(contestui.LevelAdmin))
//
// Or onto a group that already carries middleware:
//
//	g := e.Group("/admin", auditMiddleware)
//	api := contestuiecho.MountGroup(g)
package contestuiecho

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/kascribe/contestui/lib/csrf"
	"github.com/kascribe/contestui/lib/session"
)

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	key    []byte
	path   string
	logger *slog.Logger
}

// WithKey sets the key sessions and CSRF tokens are sealed and signed with.
// If not provided, a random key is generated (suitable for development
// only: sessions do not survive a restart).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the URL prefix of the API group. Defaults to "/api".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithLogger sets the logger used for request and error logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// API is the mounted API group together with the session and CSRF
// machinery its middleware uses. Page handlers outside the group share the
// same Sessions to read the signed-in user.
type API struct {
	*echo.Group
	Sessions *session.Manager
	CSRF     *csrf.Issuer
	Logger   *slog.Logger
}

// Mount creates the API group on e and installs the JSON error handler.
//
//	e := echo.New()
//	api := contestuiecho.Mount(e)
//
//	// With options:
//	api := contestuiecho.Mount(e, contestuiecho.WithKey(key), contestuiecho.WithPath("/v1"))
func Mount(e *echo.Echo, opts ...Option) *API {
	o := newOptions(opts)
	api := newAPI(o)
	e.HTTPErrorHandler = ErrorHandler(api.Logger)
	api.Group = e.Group(o.path, api.Middleware()...)
	return api
}

// MountGroup creates the API group under g. The group shares g's middleware.
func MountGroup(g *echo.Group, opts ...Option) *API {
	o := newOptions(opts)
	api := newAPI(o)
	api.Group = g.Group(o.path, api.Middleware()...)
	return api
}

func newOptions(opts []Option) *options {
	o := &options{path: "/api"}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.key == nil {
		o.key = make([]byte, 32)
		if _, err := rand.Read(o.key); err != nil {
			panic(fmt.Sprintf("contestuiecho: failed to generate random key: %v", err))
		}
	}
	return o
}

func newAPI(o *options) *API {
	sessions, err := session.NewManager(o.key)
	if err != nil {
		panic(fmt.Sprintf("contestuiecho: session manager: %v", err))
	}
	issuer, err := csrf.NewIssuer(o.key, 0)
	if err != nil {
		panic(fmt.Sprintf("contestuiecho: csrf issuer: %v", err))
	}
	return &API{Sessions: sessions, CSRF: issuer, Logger: o.logger}
}

// Middleware returns the chain installed on the API group: request
// logging, session loading and CSRF checking. Page routes outside the group
// use it so browsers receive the CSRF cookie before their first API call.
func (a *API) Middleware() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		RequestLogger(a.Logger),
		LoadSession(a.Sessions),
		echo.WrapMiddleware(func(next http.Handler) http.Handler {
			return a.CSRF.Protect(a.Sessions.ID, next)
		}),
	}
}

// Render writes a templ component (a *contestui.Node included) to the Echo
// response.
//
//	func handler(c echo.Context) error {
//	    return contestuiecho.Render(c, page.Root())
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
