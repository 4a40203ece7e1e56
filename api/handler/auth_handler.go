package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"craftcurio/api/middleware"
	"craftcurio/internal/dto"
	"craftcurio/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const signedInMessage = "signed in successfully"

type AuthHandler struct {
	Service           *service.AuthService
	Validate          *validator.Validate
	Logger            logrus.FieldLogger
	SessionCookieName string
	CookieDomain      string
	SecureCookies     bool
	SameSite          http.SameSite
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		Service:           svc,
		Validate:          validate,
		Logger:            logger,
		SessionCookieName: "token",
		SecureCookies:     true,
		SameSite:          http.SameSiteStrictMode,
	}
}

func (h *AuthHandler) SendOTPSignin(c echo.Context) error {
	var req dto.SendSigninRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.SendSigninInput{
		Email:     req.Email,
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Service.SendSigninPasscode(c.Request().Context(), input)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mapSendResponse(result))
}

func (h *AuthHandler) SendOTPSignup(c echo.Context) error {
	var req dto.SendSignupRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.SendSignupInput{
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  req.Password,
		Role:      req.Role,
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Service.SendSignupPasscode(c.Request().Context(), input)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, mapSendResponse(result))
}

func (h *AuthHandler) VerifyOTPSignin(c echo.Context) error {
	var req dto.VerifySigninRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.VerifyInput{
		Email:     req.Email,
		Code:      req.OTP,
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Service.VerifySigninPasscode(c.Request().Context(), input)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	h.setSessionCookie(c, result.Token, result.ExpiresIn)
	return c.JSON(http.StatusOK, dto.SessionResponse{
		Message: signedInMessage,
		User:    dto.UserResponseFromEntity(result.User),
		Token:   result.Token,
	})
}

func (h *AuthHandler) VerifyOTPSignup(c echo.Context) error {
	var req dto.VerifySignupRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.VerifyInput{
		Email:     req.Email,
		Code:      req.OTP,
		FullName:  req.FullName,
		Password:  req.Password,
		Role:      req.Role,
		IPAddress: stringPtr(c.RealIP()),
	}
	result, err := h.Service.VerifySignupPasscode(c.Request().Context(), input)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	h.setSessionCookie(c, result.Token, result.ExpiresIn)
	return c.JSON(http.StatusCreated, dto.SessionResponse{
		Message: "account created successfully",
		User:    dto.UserResponseFromEntity(result.User),
		Token:   result.Token,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	user, err := h.Service.GetCurrentUser(c.Request().Context(), userID)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	if user == nil {
		return writeError(c, http.StatusNotFound, errors.New("user not found"))
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *AuthHandler) AdminListUsers(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	users, err := h.Service.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return h.writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponsesFromEntities(users))
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string, expiresIn int64) {
	if token == "" {
		return
	}
	maxAge := int(expiresIn)
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(&http.Cookie{
		Name:     h.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   maxAge,
		Expires:  time.Now().Add(time.Duration(expiresIn) * time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) writeServiceError(c echo.Context, err error) error {
	var mismatch *service.PasscodeMismatchError
	status := 0
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrRestartSignup):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrPasscodeExpired):
		status = http.StatusBadRequest
	case errors.As(err, &mismatch):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrPasscodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		status = http.StatusConflict
	case errors.Is(err, service.ErrTooManyAttempts):
		status = http.StatusTooManyRequests
	}
	if status != 0 {
		return writeError(c, status, err)
	}
	if h.Logger != nil {
		h.Logger.WithError(err).Error("auth request failed")
	}
	return writeError(c, http.StatusInternalServerError, errors.New("internal server error"))
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func mapSendResponse(result *service.SendResult) dto.SendOTPResponse {
	if result == nil {
		return dto.SendOTPResponse{}
	}
	return dto.SendOTPResponse{
		Message: result.Message,
		Email:   result.Email,
		DevOTP:  result.DevPasscode,
	}
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
