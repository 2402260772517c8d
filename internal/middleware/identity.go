package middleware

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated user identity for rate-limit
// key building.  JWTAuth stores the token subject under "user_id";
// unauthenticated requests key as "anon".
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if v := c.Get("userID"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
