package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kascribe/contestui"
	contestuiecho "github.com/kascribe/contestui/adapters/echo"
)

// listContests handles GET /api/contests
func (s *Server) listContests(c echo.Context) error {
	page, limit, err := contestuiecho.Paginate(c, s.cfg.PageLimit, maxPageLimit)
	if err != nil {
		return err
	}
	contests, err := s.store.ListContests(c.Request().Context(), page, limit)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, contests)
}

// getContest handles GET /api/contests/:id
func (s *Server) getContest(c echo.Context) error {
	id, err := contestuiecho.PathInt64(c, "id")
	if err != nil {
		return err
	}
	contest, err := s.store.GetContest(c.Request().Context(), id)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, contest)
}

// listEntries handles GET /api/contests/:id/entries
func (s *Server) listEntries(c echo.Context) error {
	id, err := contestuiecho.PathInt64(c, "id")
	if err != nil {
		return err
	}
	page, limit, err := contestuiecho.Paginate(c, s.cfg.PageLimit, maxPageLimit)
	if err != nil {
		return err
	}
	entries, err := s.store.ListEntries(c.Request().Context(), id, page, limit)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// deleteEntry handles DELETE /api/contests/:id/entries/:entry
func (s *Server) deleteEntry(c echo.Context) error {
	contestID, entryID, err := entryParams(c)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEntry(c.Request().Context(), contestID, entryID); err != nil {
		return storeError(err)
	}
	s.logger.Info("entry removed", "contest", contestID, "entry", entryID)
	return c.NoContent(http.StatusNoContent)
}

type bracketRequest struct {
	Bracket *int64 `json:"bracket"`
}

// setBracket handles PUT /api/contests/:id/entries/:entry/bracket
func (s *Server) setBracket(c echo.Context) error {
	contestID, entryID, err := entryParams(c)
	if err != nil {
		return err
	}
	var req bracketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON")
	}
	if err := s.store.SetBracket(c.Request().Context(), contestID, entryID, req.Bracket); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func entryParams(c echo.Context) (contestID, entryID int64, err error) {
	if contestID, err = contestuiecho.PathInt64(c, "id"); err != nil {
		return 0, 0, err
	}
	if entryID, err = contestuiecho.PathInt64(c, "entry"); err != nil {
		return 0, 0, err
	}
	return contestID, entryID, nil
}

// listUsers handles GET /api/users
func (s *Server) listUsers(c echo.Context) error {
	page, limit, err := contestuiecho.Paginate(c, s.cfg.PageLimit, maxPageLimit)
	if err != nil {
		return err
	}
	users, err := s.store.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// promoteUser handles POST /api/users/:id/promote
func (s *Server) promoteUser(c echo.Context) error {
	return s.setLevel(c, contestui.LevelAdmin, "user promoted")
}

// removeUser handles DELETE /api/users/:id
func (s *Server) removeUser(c echo.Context) error {
	return s.setLevel(c, contestui.LevelRemoved, "user removed")
}

func (s *Server) setLevel(c echo.Context, level contestui.UserLevel, msg string) error {
	id, err := contestuiecho.PathInt64(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.SetUserLevel(c.Request().Context(), id, level); err != nil {
		return storeError(err)
	}
	actor, _ := contestuiecho.CurrentUser(c)
	s.logger.Info(msg, "user", id, "by", actor.ID)
	return c.NoContent(http.StatusNoContent)
}
