package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kascribe/contestui"
	contestuiecho "github.com/kascribe/contestui/adapters/echo"
	"github.com/kascribe/contestui/internal/config"
	"github.com/kascribe/contestui/internal/store"
)

// maxPageLimit caps the limit query parameter of list endpoints.
const maxPageLimit = 100

// Server serves the admin API and pages.
type Server struct {
	cfg    config.Config
	store  *store.Store
	logger *slog.Logger
	echo   *echo.Echo
	api    *contestuiecho.API
	client *http.Client
}

// New builds the server and registers every route.
func New(cfg config.Config, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = config.DefaultPageLimit
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		cfg:    cfg,
		store:  st,
		logger: logger,
		echo:   e,
		client: &http.Client{},
	}
	s.api = contestuiecho.Mount(e,
		contestuiecho.WithKey([]byte(cfg.SecretKey)),
		contestuiecho.WithLogger(logger),
	)
	s.routes()
	return s
}

func (s *Server) routes() {
	member := contestuiecho.RequireLevel(contestui.LevelMember)
	admin := contestuiecho.RequireLevel(contestui.LevelAdmin)

	s.echo.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// API
	s.api.GET("/contests", s.listContests, member)
	s.api.GET("/contests/:id", s.getContest, member)
	s.api.GET("/contests/:id/entries", s.listEntries, member)
	s.api.DELETE("/contests/:id/entries/:entry", s.deleteEntry, admin)
	s.api.PUT("/contests/:id/entries/:entry/bracket", s.setBracket, admin)
	s.api.GET("/users", s.listUsers, admin)
	s.api.POST("/users/:id/promote", s.promoteUser, admin)
	s.api.DELETE("/users/:id", s.removeUser, admin)

	// Pages
	pages := s.echo.Group("", s.api.Middleware()...)
	pages.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/contests")
	})
	pages.GET("/contests", s.contestsPage, member)
	pages.GET("/contests/:id/entries", s.entriesPage, member)
	pages.GET("/users", s.usersPage, admin)
	pages.GET("/login", s.login)
	pages.GET("/logout", s.logout)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Listening", "addr", addr)
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// storeError maps store sentinels onto HTTP errors. Anything else is
// returned unchanged and becomes a logged 500.
func storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidPage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
