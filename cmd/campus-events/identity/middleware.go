package identity

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Middleware rejects requests without a valid bearer token and stores the
// resolved Actor on the echo context.
func Middleware(v *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			actor, err := v.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// FromEcho returns the actor stored by Middleware.
func FromEcho(c echo.Context) (Actor, bool) {
	actor, ok := c.Get(actorKey).(Actor)
	return actor, ok
}

// SetEcho stores actor on c. Handlers under test use it in place of Middleware.
func SetEcho(c echo.Context, actor Actor) {
	c.Set(actorKey, actor)
}
