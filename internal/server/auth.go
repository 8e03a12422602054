package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kascribe/contestui"
)

// login handles GET /login?kaid=...
//
// It signs in an existing, non-removed user and issues a CSRF cookie bound
// to the new session.
func (s *Server) login(c echo.Context) error {
	kaid := c.QueryParam("kaid")
	if kaid == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "kaid is required")
	}
	u, err := s.store.GetUserByKAID(c.Request().Context(), kaid)
	if err != nil {
		return storeError(err)
	}
	if u.Level <= contestui.LevelRemoved {
		return echo.NewHTTPError(http.StatusForbidden, "user has been removed")
	}

	sess := s.api.Sessions.New(u.Principal())
	if err := s.api.Sessions.Save(c.Response(), sess); err != nil {
		return err
	}
	if err := s.api.CSRF.SetCookie(c.Response(), sess.ID); err != nil {
		return err
	}
	s.logger.Info("signed in", "user", u.ID, "level", u.Level.String())
	return c.Redirect(http.StatusSeeOther, "/contests")
}

// logout handles GET /logout
func (s *Server) logout(c echo.Context) error {
	s.api.Sessions.Clear(c.Response())
	return c.Redirect(http.StatusSeeOther, "/")
}
