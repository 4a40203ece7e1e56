package middleware

import (
	"net/http"
	"strings"

	"craftcurio/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	JWT        *utils.JWTManager
	CookieName string
}

// RequireAuth accepts the session token from the `token` cookie or an
// Authorization bearer header (for non-cookie clients).
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.JWT == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token := m.extractToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		claims, err := m.JWT.ParseSessionToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		SetAuthContext(c, userID, claims.Role)
		return next(c)
	}
}

func (m AuthMiddleware) extractToken(c echo.Context) string {
	name := m.CookieName
	if name == "" {
		name = "token"
	}
	if cookie, err := c.Cookie(name); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return extractBearerToken(c.Request())
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
