package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"craftcurio/internal/entity"
	"craftcurio/internal/repository"
	"craftcurio/internal/service"
	"craftcurio/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// Minimal in-memory collaborators
// =============================================================================

type memUsers struct {
	users map[string]*entity.User
}

func (s *memUsers) Create(_ context.Context, user *entity.User) error {
	if _, ok := s.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	user.ID = uuid.New()
	s.users[user.Email] = user
	return nil
}

func (s *memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (s *memUsers) List(_ context.Context, _, _ int) ([]entity.User, error) {
	var users []entity.User
	for _, user := range s.users {
		users = append(users, *user)
	}
	return users, nil
}

type memPasscodes struct {
	records map[string]*entity.OneTimePasscode
}

func (s *memPasscodes) key(email string, purpose entity.PasscodePurpose) string {
	return email + "|" + string(purpose)
}

func (s *memPasscodes) Upsert(_ context.Context, p *entity.OneTimePasscode) error {
	p.ID = uuid.New()
	s.records[s.key(p.Email, p.Purpose)] = p
	return nil
}

func (s *memPasscodes) FindLatest(_ context.Context, email string, purpose entity.PasscodePurpose) (*entity.OneTimePasscode, error) {
	record, ok := s.records[s.key(email, purpose)]
	if !ok || record.Verified {
		return nil, nil
	}
	return record, nil
}

func (s *memPasscodes) IncrementAttempts(_ context.Context, id uuid.UUID) error {
	for _, record := range s.records {
		if record.ID == id {
			record.Attempts++
		}
	}
	return nil
}

func (s *memPasscodes) MarkVerified(_ context.Context, id uuid.UUID) error {
	for _, record := range s.records {
		if record.ID == id {
			record.Verified = true
		}
	}
	return nil
}

func (s *memPasscodes) Delete(_ context.Context, id uuid.UUID) error {
	for key, record := range s.records {
		if record.ID == id {
			delete(s.records, key)
		}
	}
	return nil
}

type memProfiles struct {
	artisans int
}

func (s *memProfiles) CreateArtisan(context.Context, *entity.ArtisanProfile) error {
	s.artisans++
	return nil
}

func (s *memProfiles) CreateCollector(context.Context, *entity.CollectorProfile) error {
	return nil
}

type memCounters struct{ n int64 }

func (s *memCounters) Next(context.Context, string) (int64, error) {
	s.n++
	return s.n, nil
}

type noopSender struct{}

func (noopSender) SendPasscode(context.Context, string, string, entity.PasscodePurpose) error {
	return nil
}

// =============================================================================
// Setup
// =============================================================================

func setupHandler(t *testing.T) (*AuthHandler, *echo.Echo) {
	t.Helper()

	manager := &utils.JWTManager{
		Secret:          []byte("this-is-a-test-secret-with-32-bytes!"),
		SessionTokenTTL: 7 * 24 * time.Hour,
	}
	svc := service.NewAuthService(
		&memUsers{users: make(map[string]*entity.User)},
		&memPasscodes{records: make(map[string]*entity.OneTimePasscode)},
		&memProfiles{},
		&memCounters{},
		nil,
		noopSender{},
		service.BcryptPasswordHasher{Cost: bcrypt.MinCost},
		service.JWTSessionIssuer{Manager: manager},
		nil,
		service.RealClock{},
		service.AuthConfig{ExposePasscodes: true},
	)

	h := NewAuthHandler(svc, validator.New(), nil)
	h.SecureCookies = false

	e := echo.New()
	e.POST("/api/auth/send-otp-signup", h.SendOTPSignup)
	e.POST("/api/auth/verify-otp-signup", h.VerifyOTPSignup)
	e.POST("/api/auth/send-otp-signin", h.SendOTPSignin)
	e.POST("/api/auth/verify-otp-signin", h.VerifyOTPSignin)
	e.POST("/api/auth/logout", h.Logout)
	return h, e
}

func postJSON(e *echo.Echo, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	return nil
}

// =============================================================================
// HTTP flow
// =============================================================================

func TestSignupFlow_EndToEnd(t *testing.T) {
	_, e := setupHandler(t)

	rec := postJSON(e, "/api/auth/send-otp-signup",
		`{"email":"a@b.com","full_name":"A B","password":"longpass1","role":"artisan"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("send: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var sendBody struct {
		Email  string `json:"email"`
		DevOTP string `json:"dev_otp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sendBody); err != nil {
		t.Fatalf("send: invalid body: %v", err)
	}
	if sendBody.Email != "a@b.com" || sendBody.DevOTP == "" {
		t.Fatalf("send: body = %s, want normalized email and a dev code", rec.Body.String())
	}

	rec = postJSON(e, "/api/auth/verify-otp-signup",
		`{"email":"a@b.com","otp":"`+sendBody.DevOTP+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("verify: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("verify: a token cookie should be set")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode {
		t.Error("verify: cookie should be HttpOnly with SameSite=Strict")
	}
	if cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("verify: cookie max age = %d, want 7 days", cookie.MaxAge)
	}

	var verifyBody struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &verifyBody); err != nil {
		t.Fatalf("verify: invalid body: %v", err)
	}
	if verifyBody.Token != cookie.Value {
		t.Error("verify: body token should match the cookie value")
	}
	if verifyBody.User["role"] != "artisan" {
		t.Errorf("verify: user role = %v, want artisan", verifyBody.User["role"])
	}
	if _, leaked := verifyBody.User["password_hash"]; leaked {
		t.Error("verify: the user payload must not carry the password hash")
	}
}

func TestSendOTPSignin_UnknownEmail(t *testing.T) {
	_, e := setupHandler(t)

	rec := postJSON(e, "/api/auth/send-otp-signin", `{"email":"unknown@x.com"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSendOTPSignup_ValidationErrors(t *testing.T) {
	_, e := setupHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"full_name":"A B","password":"longpass1"}`},
		{"short password", `{"email":"a@b.com","full_name":"A B","password":"short"}`},
		{"missing name", `{"email":"a@b.com","password":"longpass1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(e, "/api/auth/send-otp-signup", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestVerifyOTPSignin_NoPasscode(t *testing.T) {
	_, e := setupHandler(t)

	rec := postJSON(e, "/api/auth/verify-otp-signin", `{"email":"a@b.com","otp":"123456"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	_, e := setupHandler(t)

	rec := postJSON(e, "/api/auth/logout", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge != -1 {
		t.Error("logout should expire the token cookie")
	}
}

// =============================================================================
// Error mapping
// =============================================================================

func TestWriteServiceError_StatusMapping(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil)
	e := echo.New()

	tests := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrRestartSignup, http.StatusBadRequest},
		{service.ErrPasscodeExpired, http.StatusBadRequest},
		{&service.PasscodeMismatchError{Remaining: 2}, http.StatusBadRequest},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrPasscodeNotFound, http.StatusNotFound},
		{service.ErrEmailAlreadyRegistered, http.StatusConflict},
		{service.ErrTooManyAttempts, http.StatusTooManyRequests},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := h.writeServiceError(c, tt.err); err != nil {
			t.Fatalf("writeServiceError(%v) returned %v", tt.err, err)
		}
		if rec.Code != tt.want {
			t.Errorf("writeServiceError(%v) status = %d, want %d", tt.err, rec.Code, tt.want)
		}
		if tt.want == http.StatusInternalServerError &&
			strings.Contains(rec.Body.String(), "exploded") {
			t.Error("unexpected errors must not leak their message to the caller")
		}
	}
}
