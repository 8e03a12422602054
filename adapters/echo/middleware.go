package contestuiecho

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kascribe/contestui"
	"github.com/kascribe/contestui/lib/session"
)

const sessionKey = "contestui.session"

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RequestLogger logs the start and completion of each request.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			r := c.Request()

			logger.Info("request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", c.RealIP(),
			)

			err := next(c)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}

// LoadSession stores the request's session, if any, in the context.
func LoadSession(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s, err := m.Load(c.Request()); err == nil {
				c.Set(sessionKey, s)
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session loaded by LoadSession.
func CurrentSession(c echo.Context) (session.Session, bool) {
	s, ok := c.Get(sessionKey).(session.Session)
	return s, ok
}

// CurrentUser returns the signed-in user.
func CurrentUser(c echo.Context) (contestui.User, bool) {
	s, ok := CurrentSession(c)
	if !ok {
		return contestui.User{}, false
	}
	return s.User, true
}

// RequireLevel rejects requests whose user is below level: 401 without a
// session, 403 otherwise. Must run after LoadSession.
func RequireLevel(level contestui.UserLevel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
			}
			if !u.AtLeast(level) {
				return echo.NewHTTPError(http.StatusForbidden, level.String()+" level required")
			}
			return next(c)
		}
	}
}

// ErrorHandler writes errors as JSON {error, message} bodies. Errors that
// are not *echo.HTTPError become 500s and are logged; out-of-range row
// indices become 400s.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal error"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case contestui.IsIndexError(err):
			code = http.StatusBadRequest
			message = err.Error()
		default:
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"error", err,
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, ErrorResponse{Error: http.StatusText(code), Message: message})
		}
		if werr != nil {
			logger.Error("failed to write error response", "error", werr)
		}
	}
}

// Paginate reads the page and limit query parameters. page defaults to 0
// and limit to defaultLimit; limit is capped at maxLimit when maxLimit is
// positive.
func Paginate(c echo.Context, defaultLimit, maxLimit int) (page, limit int, err error) {
	page, err = queryInt(c, "page", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err = queryInt(c, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if page < 0 || limit <= 0 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page must be >= 0 and limit > 0")
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if page > math.MaxInt/limit {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page out of range")
	}
	return page, limit, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return v, nil
}

// PathInt64 parses a numeric path parameter.
func PathInt64(c echo.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}
