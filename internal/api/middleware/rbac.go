package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/minimart/pos-api/internal/core/domain"
)

// RBAC enforces role-based access control on routes behind Session. Role
// comparison ignores case: a stored role of "Admin" passes an "admin" gate,
// while any non-matching role is denied.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, _ := c.Get(actorKey).(*domain.User)
			if actor == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			for _, role := range allowedRoles {
				if strings.EqualFold(actor.Role, role) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"message": "forbidden"})
		}
	}
}
