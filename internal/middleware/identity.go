package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// CurrentUserID returns the authenticated user's numeric id from the
// context.  JWT numeric claims decode as float64, so both forms are
// accepted.  Returns false when the request is unauthenticated.
func CurrentUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case int64:
		return uint64(v), true
	}
	return 0, false
}

// CurrentRole returns the authenticated user's role claim, or an empty
// string for unauthenticated requests.
func CurrentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// currentUserID renders the user identity for rate limit keys.  Falls
// back to "anon" for unauthenticated traffic.
func currentUserID(c echo.Context) string {
	if id, ok := CurrentUserID(c); ok {
		return fmt.Sprintf("%d", id)
	}
	return "anon"
}
