package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"craftcurio/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func testJWTManager() *utils.JWTManager {
	return &utils.JWTManager{
		Secret:          []byte("this-is-a-test-secret-with-32-bytes!"),
		SessionTokenTTL: time.Hour,
	}
}

func runAuthMiddleware(t *testing.T, configure func(*http.Request)) (int, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	configure(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := AuthMiddleware{JWT: testJWTManager(), CookieName: "token"}
	handler := m.RequireAuth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, c
}

func TestRequireAuth_CookieToken(t *testing.T) {
	userID := uuid.New()
	token, _, err := testJWTManager().IssueSessionToken(userID.String(), "artisan")
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}

	status, c := runAuthMiddleware(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	})

	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	gotID, ok := UserIDFromContext(c)
	if !ok || gotID != userID {
		t.Error("user id should be set on the context")
	}
	role, ok := RoleFromContext(c)
	if !ok || role != "artisan" {
		t.Error("role should be set on the context")
	}
}

func TestRequireAuth_BearerToken(t *testing.T) {
	token, _, err := testJWTManager().IssueSessionToken(uuid.New().String(), "buyer")
	if err != nil {
		t.Fatalf("IssueSessionToken() error = %v", err)
	}

	status, _ := runAuthMiddleware(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	status, _ := runAuthMiddleware(t, func(*http.Request) {})
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", status, http.StatusUnauthorized)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	status, _ := runAuthMiddleware(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	})
	if status != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", status, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string, set bool) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if set {
			SetAuthContext(c, uuid.New(), role)
		}
		handler := RequireRole("admin")(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	if status := run("admin", true); status != http.StatusOK {
		t.Errorf("admin: status = %d, want %d", status, http.StatusOK)
	}
	if status := run("buyer", true); status != http.StatusForbidden {
		t.Errorf("buyer: status = %d, want %d", status, http.StatusForbidden)
	}
	if status := run("", false); status != http.StatusForbidden {
		t.Errorf("no context: status = %d, want %d", status, http.StatusForbidden)
	}
}
