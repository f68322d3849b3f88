package middleware

// identity.go provides a helper shared across handlers that need the
// caller's identity after JWTAuth has run. JWTAuth stores the decoded
// claims directly under "user_id" and "role" (see jwt.go), so this just
// normalizes the numeric-vs-string encoding JWT libraries produce.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserID extracts the authenticated caller's id as a string. It returns ""
// when no token was parsed or the claim is missing, which callers should
// treat as an unauthenticated request.
func UserID(c echo.Context) string {
	v := c.Get("user_id")
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatUint(uint64(val), 10)
	default:
		return ""
	}
}
