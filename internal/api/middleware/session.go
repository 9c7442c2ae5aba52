package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "sessionId"

const actorKey = "actor"

// Session resolves the acting user from the sessionId cookie and injects it
// into the request context. Requests without a resolvable session get 401.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			actor, err := auth.ResolveActor(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
				}
				return err
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// Actor extracts the user injected by the Session middleware. Absence proves
// the middleware did not run on this route; treat it as unauthenticated.
func Actor(c echo.Context) (*domain.User, error) {
	actor, _ := c.Get(actorKey).(*domain.User)
	if actor == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return actor, nil
}
