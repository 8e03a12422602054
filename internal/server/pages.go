package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kascribe/contestui"
	contestuiecho "github.com/kascribe/contestui/adapters/echo"
	"github.com/kascribe/contestui/internal/pages"
	"github.com/kascribe/contestui/lib/csrf"
)

// maxPages caps the pages query parameter.
const maxPages = 50

// fetcher returns an API client acting as the caller: it forwards the
// request's cookies and echoes its CSRF cookie in the header.
func (s *Server) fetcher(c echo.Context) *contestui.HTTPFetcher {
	r := c.Request()
	base := s.cfg.APIBase
	if base == "" {
		base = c.Scheme() + "://" + r.Host
	}
	f := &contestui.HTTPFetcher{
		Client:  s.client,
		BaseURL: base,
		Cookies: r.Cookies(),
	}
	if ck, err := r.Cookie(csrf.CookieName); err == nil {
		f.Token = csrf.StaticToken(ck.Value)
	}
	return f
}

func (s *Server) arena() *contestui.Arena {
	return contestui.NewArena(contestui.WithLogger(s.logger))
}

// pagesParam reads ?pages=N, defaulting to 1.
func pagesParam(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("pages"))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxPages)
}

func (s *Server) render(c echo.Context, code int, title string, content contestui.Target) error {
	viewer, _ := contestuiecho.CurrentUser(c)
	c.Response().Status = code
	return contestuiecho.Render(c, pages.Layout(title, viewer, content))
}

// contestsPage handles GET /contests
func (s *Server) contestsPage(c echo.Context) error {
	p, err := pages.NewContestsPage(s.arena(), s.fetcher(c), s.cfg.PageLimit)
	if err != nil {
		return err
	}
	// Failures are logged by the table and leave it partly filled.
	_ = p.Load(c.Request().Context(), pagesParam(c))
	return s.render(c, http.StatusOK, "Contests", p)
}

// entriesPage handles GET /contests/:id/entries
func (s *Server) entriesPage(c echo.Context) error {
	id, err := contestuiecho.PathInt64(c, "id")
	if err != nil {
		return err
	}
	p := pages.NewEntriesPage(s.arena(), s.fetcher(c), id, s.cfg.PageLimit)

	code := http.StatusOK
	var se *contestui.StatusError
	if err := p.Load(c.Request().Context(), pagesParam(c)); errors.As(err, &se) && p.Table() == nil {
		code = se.Code
	}
	title := "Entries"
	if name := p.Contest().Name; name != "" {
		title = name
	}
	return s.render(c, code, title, p)
}

// usersPage handles GET /users
func (s *Server) usersPage(c echo.Context) error {
	viewer, _ := contestuiecho.CurrentUser(c)
	p, err := pages.NewUsersPage(s.arena(), s.fetcher(c), viewer, s.cfg.PageLimit)
	if err != nil {
		return err
	}
	_ = p.Load(c.Request().Context(), pagesParam(c))
	return s.render(c, http.StatusOK, "Users", p)
}
